package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

// UserService manages CRM accounts. Everything but Ambassadors is restricted
// to admins. Renaming or deleting a user never touches the leads that cite
// the old name.
type UserService struct {
	gateway  UserGateway
	notifier Notifier
	log      *zap.Logger
}

func NewUserService(gateway UserGateway, notifier Notifier, log *zap.Logger) *UserService {
	return &UserService{gateway: gateway, notifier: notifier, log: log}
}

func (s *UserService) List(ctx context.Context, sess *Session) ([]entity.User, error) {
	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	return s.list(ctx, sess)
}

// Create registers a user and returns the refreshed user list.
func (s *UserService) Create(ctx context.Context, sess *Session, input entity.UserInput) ([]entity.User, error) {
	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	if input.Active == "" {
		input.Active = "Si"
	}
	if err := asDomainError(ValidateUserInput(input)); err != nil {
		s.notify(ctx, sess, failure("Error", err))
		return nil, err
	}
	if _, err := s.gateway.CreateUser(ctx, input); err != nil {
		return nil, s.mutationFailed(ctx, sess, err, "Fallo al crear usuario")
	}
	s.log.Info("user created", zap.String("email", input.Email), zap.String("rol", string(input.Role)))
	s.notify(ctx, sess, success("Éxito", "Usuario creado correctamente"))
	return s.list(ctx, sess)
}

func (s *UserService) Update(ctx context.Context, sess *Session, id string, changes entity.UserChanges) ([]entity.User, error) {
	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "Datos inválidos: id: es obligatorio"}
	}
	if err := asDomainError(ValidateUserChanges(changes)); err != nil {
		s.notify(ctx, sess, failure("Error", err))
		return nil, err
	}
	if _, err := s.gateway.UpdateUser(ctx, id, changes); err != nil {
		return nil, s.mutationFailed(ctx, sess, err, "Fallo al actualizar usuario")
	}
	s.notify(ctx, sess, success("Éxito", "Usuario actualizado correctamente"))
	return s.list(ctx, sess)
}

func (s *UserService) Delete(ctx context.Context, sess *Session, id string) ([]entity.User, error) {
	if err := s.authorize(sess); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "Datos inválidos: id: es obligatorio"}
	}
	if _, err := s.gateway.DeleteUser(ctx, id); err != nil {
		return nil, s.mutationFailed(ctx, sess, err, "Fallo al eliminar usuario")
	}
	s.notify(ctx, sess, success("Éxito", "Usuario eliminado correctamente"))
	return s.list(ctx, sess)
}

// Ambassadors lists the active users a lead can be assigned to. Any signed-in
// actor may call it since the lead form needs the options.
func (s *UserService) Ambassadors(ctx context.Context, sess *Session) ([]entity.User, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, classify(err, "No se pudieron cargar los embajadores")
	}
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if u.IsAmbassador() && u.IsActive() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserService) list(ctx context.Context, sess *Session) ([]entity.User, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		uerr := classify(err, "No se pudieron cargar los usuarios")
		s.notify(ctx, sess, Notification{
			Title:       "Error",
			Description: "No se pudieron cargar los usuarios",
			Variant:     VariantDestructive,
		})
		return nil, uerr
	}
	return users, nil
}

// mutationFailed surfaces ok:false answers verbatim and replaces transport
// failures with the fixed message.
func (s *UserService) mutationFailed(ctx context.Context, sess *Session, err error, transportMsg string) error {
	uerr := classify(err, transportMsg)
	if !IsDomainError(uerr) {
		s.log.Warn("user mutation failed", zap.Error(err))
		uerr = &TechnicalError{Code: "GATEWAY_ERROR", Message: transportMsg, Err: err}
	}
	s.notify(ctx, sess, failure("Error", uerr))
	return uerr
}

func (s *UserService) authorize(sess *Session) error {
	if sess == nil {
		return ErrNoSession
	}
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *UserService) notify(ctx context.Context, sess *Session, n Notification) {
	if n.At.IsZero() {
		n.At = nowFunc()
	}
	if sess != nil {
		n.Session = sess.Token
		n.Actor = sess.User.Email
	}
	if err := s.notifier.Notify(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("notification dropped", zap.String("title", n.Title), zap.Error(err))
	}
}
