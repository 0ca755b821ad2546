package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/http/middleware"
)

const sessionKeyPrefix = "crm_user:"

// Session is the authenticated actor of one browser session. It is passed
// explicitly to every operation that depends on who is asking.
type Session struct {
	Token string
	User  entity.User
}

// AmbassadorFilter is the name leads are scoped to, or "" for unscoped actors.
func (s *Session) AmbassadorFilter() string {
	if s == nil || !s.User.IsAmbassador() {
		return ""
	}
	return s.User.Name
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

// Auth owns the session lifecycle: restore from storage, replace on login,
// clear on logout.
type Auth struct {
	gateway  AuthGateway
	store    SessionStore
	notifier Notifier
	log      *zap.Logger
	newToken func() string
}

func NewAuth(gateway AuthGateway, store SessionStore, notifier Notifier, log *zap.Logger) *Auth {
	return &Auth{
		gateway:  gateway,
		store:    store,
		notifier: notifier,
		log:      log,
		newToken: func() string { return uuid.New().String() },
	}
}

// Restore loads a saved session. A blob that does not decode into a user is
// removed and reported as no session.
func (a *Auth) Restore(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	blob, err := a.store.Get(ctx, sessionKeyPrefix+token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("error al leer la sesión: %w", err)
	}

	var user entity.User
	if err := json.Unmarshal(blob, &user); err != nil || (user.Email == "" && user.Name == "") {
		a.log.Debug("discarding malformed session", zap.String("token", token))
		_ = a.store.Remove(ctx, sessionKeyPrefix+token)
		return nil, ErrNoSession
	}
	return &Session{Token: token, User: user}, nil
}

// Login authenticates against the spreadsheet and stores a fresh session.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		uerr := classify(err, "Credenciales incorrectas")
		title := "Error de acceso"
		if IsTechnicalError(uerr) {
			title = "Error de servidor"
			uerr = &TechnicalError{
				Code:    "AUTH_UNAVAILABLE",
				Message: "No se pudo conectar con el servicio de autenticación.",
				Err:     err,
			}
		}
		middleware.RecordLogin("rejected")
		a.notify(ctx, failure(title, uerr))
		return nil, uerr
	}

	blob, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("error al serializar la sesión: %w", err)
	}
	sess := &Session{Token: a.newToken(), User: *user}
	if err := a.store.Set(ctx, sessionKeyPrefix+sess.Token, blob); err != nil {
		return nil, &TechnicalError{Code: "SESSION_STORE", Message: "No se pudo guardar la sesión", Err: err}
	}

	middleware.RecordLogin("ok")
	a.log.Info("login", zap.String("email", user.Email), zap.String("rol", string(user.Role)))
	welcome := success("Bienvenido", "Hola, "+user.Name)
	welcome.Session = sess.Token
	welcome.Actor = user.Email
	a.notify(ctx, welcome)
	return sess, nil
}

// Logout removes the stored session.
func (a *Auth) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNoSession
	}
	if err := a.store.Remove(ctx, sessionKeyPrefix+sess.Token); err != nil {
		return fmt.Errorf("error al cerrar la sesión: %w", err)
	}
	bye := success("Sesión cerrada", "")
	bye.Session = sess.Token
	bye.Actor = sess.User.Email
	a.notify(ctx, bye)
	return nil
}

func (a *Auth) notify(ctx context.Context, n Notification) {
	if err := a.notifier.Notify(ctx, n); err != nil {
		a.log.Warn("notification dropped", zap.String("title", n.Title), zap.Error(err))
	}
}
