package sheets

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkMessage is shown when the script endpoint cannot be reached at all.
const NetworkMessage = "Error de red: verifica que el script esté publicado como 'Cualquier persona' y que hayas aceptado los permisos con el botón 'Ejecutar'."

// NetworkError is a transport-level failure: DNS, refused connection, TLS,
// blocked redirect. No HTTP response was received.
type NetworkError struct {
	Action string
	Err    error
}

func (e *NetworkError) Error() string {
	return NetworkMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a response outside the 2xx range.
type HTTPError struct {
	Action     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DecodeError means the body was not a JSON envelope.
type DecodeError struct {
	Action string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("respuesta inválida de %s: %v", e.Action, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RemoteError is an application-level rejection (ok:false). Message is the
// backend's mensaje verbatim and may be empty.
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rechazado por el servidor", e.Action)
	}
	return e.Message
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsHTTP(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}
