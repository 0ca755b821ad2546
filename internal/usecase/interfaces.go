package usecase

import (
	"context"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
)

// LeadGateway is the lead half of the spreadsheet action catalog.
type LeadGateway interface {
	ListLeads(ctx context.Context, embajador string) ([]entity.Lead, error)
	CreateLead(ctx context.Context, lead entity.LeadInput) (*sheets.Envelope, error)
	UpdateLead(ctx context.Context, fila int, cambios entity.LeadChanges) (*sheets.Envelope, error)
	UpdateStage(ctx context.Context, fila int, etapa entity.Stage) (*sheets.Envelope, error)
	DeleteLead(ctx context.Context, fila int) (*sheets.Envelope, error)
	ReadRow(ctx context.Context, fila int) (*entity.Lead, error)
}

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

type UserGateway interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	CreateUser(ctx context.Context, input entity.UserInput) (*sheets.Envelope, error)
	UpdateUser(ctx context.Context, id string, changes entity.UserChanges) (*sheets.Envelope, error)
	DeleteUser(ctx context.Context, id string) (*sheets.Envelope, error)
}

// SessionStore keeps one serialized session blob per key for the lifetime of
// a browser session. Get returns ErrSessionNotFound for unknown keys.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}

// Notifier receives one notification per user-visible success or failure.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
