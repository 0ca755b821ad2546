package usecase

import (
	"context"
	"errors"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
)

var (
	ErrForbidden       = errors.New("acceso restringido a administradores")
	ErrNoSession       = errors.New("sesión no iniciada")
	ErrNotSelectable   = entity.ErrNotSelectable
	ErrSessionNotFound = errors.New("sesión no encontrada")
)

// DomainError is a rejection the user can act on: invalid input or an
// ok:false answer from the spreadsheet, whose mensaje is kept verbatim.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure to talk to the spreadsheet at all.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// classify maps gateway errors onto the two use-case kinds. fallback replaces
// an empty mensaje on ok:false answers.
func classify(err error, fallback string) error {
	var remote *sheets.RemoteError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &remote):
		msg := remote.Message
		if msg == "" {
			msg = fallback
		}
		return &DomainError{Code: "REMOTE_REJECTED", Message: msg}
	case sheets.IsNetwork(err):
		return &TechnicalError{Code: "NETWORK_UNREACHABLE", Message: err.Error(), Err: err}
	case sheets.IsHTTP(err):
		return &TechnicalError{Code: "HTTP_ERROR", Message: err.Error(), Err: err}
	case errors.Is(err, context.Canceled):
		return &TechnicalError{Code: "CANCELED", Message: "Operación cancelada", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &TechnicalError{Code: "TIMEOUT", Message: "Tiempo de espera agotado", Err: err}
	case IsDomainError(err), IsTechnicalError(err):
		return err
	default:
		return &TechnicalError{Code: "GATEWAY_ERROR", Message: err.Error(), Err: err}
	}
}
