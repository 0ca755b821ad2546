package usecase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/http/middleware"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
)

// LeadsView is what the UI renders: the last fetched list plus the loading
// flag and the last list error.
type LeadsView struct {
	Leads   []entity.Lead `json:"leads"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
}

// LeadRepository is the per-session projection of the remote lead sheet.
// The snapshot is only ever replaced by a full list; mutations never patch it.
type LeadRepository struct {
	gateway  LeadGateway
	session  *Session
	notifier Notifier
	log      *zap.Logger

	mu       sync.Mutex
	leads    []entity.Lead
	inflight int
	loaded   bool
	lastErr  string
}

func NewLeadRepository(gateway LeadGateway, session *Session, notifier Notifier, log *zap.Logger) *LeadRepository {
	return &LeadRepository{
		gateway:  gateway,
		session:  session,
		notifier: notifier,
		log:      log.With(zap.String("actor", session.User.Email)),
	}
}

func (r *LeadRepository) Session() *Session {
	return r.session
}

// ListAll refetches the whole list for the session's scope and replaces the
// snapshot. On failure the previous snapshot stays in place.
func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	return r.refetch(ctx, "manual")
}

// Refresh is ListAll as triggered by the background schedule.
func (r *LeadRepository) Refresh(ctx context.Context) error {
	_, err := r.refetch(ctx, "schedule")
	return err
}

func (r *LeadRepository) refetch(ctx context.Context, trigger string) ([]entity.Lead, error) {
	r.mu.Lock()
	r.inflight++
	r.lastErr = ""
	r.mu.Unlock()

	scope := r.session.AmbassadorFilter()
	raw, err := r.gateway.ListLeads(ctx, scope)
	middleware.RecordLeadRefetch(trigger)

	if err != nil {
		uerr := classify(err, "Error al leer clientes")
		r.mu.Lock()
		r.inflight--
		r.loaded = true
		r.lastErr = uerr.Error()
		r.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			r.log.Debug("lead list canceled", zap.String("trigger", trigger))
			return nil, uerr
		}
		r.log.Warn("lead list failed", zap.String("trigger", trigger), zap.Error(err))
		r.notify(ctx, failure("Error de conexión", uerr))
		return nil, uerr
	}

	leads := make([]entity.Lead, 0, len(raw))
	for _, l := range raw {
		if scope != "" && l.Ambassador != scope {
			continue
		}
		l.AssignID()
		leads = append(leads, l)
	}

	r.mu.Lock()
	r.inflight--
	r.loaded = true
	r.leads = leads
	r.mu.Unlock()
	r.log.Debug("lead list replaced", zap.String("trigger", trigger), zap.Int("count", len(leads)))
	return cloneLeads(leads), nil
}

// Snapshot returns a copy of the current view.
func (r *LeadRepository) Snapshot() LeadsView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LeadsView{
		Leads:   cloneLeads(r.leads),
		Loading: r.inflight > 0,
		Error:   r.lastErr,
	}
}

// View returns the snapshot, listing first when asked to or when the session
// has not listed yet.
func (r *LeadRepository) View(ctx context.Context, refresh bool) LeadsView {
	r.mu.Lock()
	loaded := r.loaded
	r.mu.Unlock()
	if refresh || !loaded {
		_, _ = r.refetch(ctx, "manual")
	}
	return r.Snapshot()
}

func (r *LeadRepository) Create(ctx context.Context, input entity.LeadInput) error {
	if err := asDomainError(ValidateLeadInput(input)); err != nil {
		r.notify(ctx, failure("❌ Error", err))
		return err
	}
	env, err := r.gateway.CreateLead(ctx, input)
	if row, ok := env.Row(); ok && err == nil {
		r.log.Info("lead created", zap.Int("fila", row), zap.String("embajador", input.Ambassador))
	}
	return r.afterMutation(ctx, env, err, "✅ Cliente creado", "Error al crear")
}

func (r *LeadRepository) Update(ctx context.Context, row int, changes entity.LeadChanges) error {
	if err := r.checkRow(ctx, row); err != nil {
		return err
	}
	if err := asDomainError(ValidateLeadChanges(changes)); err != nil {
		r.notify(ctx, failure("❌ Error", err))
		return err
	}
	env, err := r.gateway.UpdateLead(ctx, row, changes)
	return r.afterMutation(ctx, env, err, "✅ Cliente actualizado", "Error al actualizar")
}

// UpdateStage moves a lead to another stage. Every stage is reachable from
// every other one; only unknown stage keys are rejected.
func (r *LeadRepository) UpdateStage(ctx context.Context, row int, stage entity.Stage) error {
	if err := r.checkRow(ctx, row); err != nil {
		return err
	}
	current := r.stageOf(row)
	if !entity.CanTransition(current, stage) {
		err := &DomainError{Code: "INVALID_STAGE", Message: "Etapa desconocida: " + string(stage)}
		r.notify(ctx, failure("❌ Error", err))
		return err
	}
	env, err := r.gateway.UpdateStage(ctx, row, stage)
	if err == nil {
		// the stage toast carries no description
		env = nil
	}
	return r.afterMutation(ctx, env, err, "✅ Etapa actualizada", "Error al actualizar etapa")
}

func (r *LeadRepository) Delete(ctx context.Context, row int) error {
	if err := r.checkRow(ctx, row); err != nil {
		return err
	}
	env, err := r.gateway.DeleteLead(ctx, row)
	return r.afterMutation(ctx, env, err, "🗑️ Cliente eliminado", "Error al eliminar")
}

// Read fetches a single row straight from the sheet. The snapshot is untouched.
func (r *LeadRepository) Read(ctx context.Context, row int) (*entity.Lead, error) {
	if err := r.checkRow(ctx, row); err != nil {
		return nil, err
	}
	lead, err := r.gateway.ReadRow(ctx, row)
	if err != nil {
		return nil, classify(err, "Error al leer el cliente")
	}
	if lead == nil {
		return nil, &DomainError{Code: "NOT_FOUND", Message: "Cliente no encontrado"}
	}
	if scope := r.session.AmbassadorFilter(); scope != "" && lead.Ambassador != scope {
		return nil, &DomainError{Code: "NOT_FOUND", Message: "Cliente no encontrado"}
	}
	lead.AssignID()
	return lead, nil
}

// afterMutation turns the gateway result into the user-visible outcome. A
// success refetches exactly once; a failure leaves the snapshot as it was.
func (r *LeadRepository) afterMutation(ctx context.Context, env *sheets.Envelope, err error, title, fallback string) error {
	if err != nil {
		uerr := classify(err, fallback)
		r.log.Info("lead mutation failed", zap.String("title", title), zap.Error(err))
		r.notify(ctx, failure("❌ Error", uerr))
		return uerr
	}
	desc := ""
	if env != nil {
		desc = env.Mensaje
	}
	r.notify(ctx, success(title, desc))
	_, _ = r.refetch(ctx, "mutation")
	return nil
}

func (r *LeadRepository) checkRow(ctx context.Context, row int) error {
	if row > 0 {
		return nil
	}
	r.notify(ctx, failure("❌ Error", ErrNotSelectable))
	return ErrNotSelectable
}

func (r *LeadRepository) stageOf(row int) entity.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.Row != nil && *l.Row == row {
			return l.Stage
		}
	}
	return ""
}

func (r *LeadRepository) notify(ctx context.Context, n Notification) {
	n.Session = r.session.Token
	n.Actor = r.session.User.Email
	if err := r.notifier.Notify(ctx, n); err != nil {
		r.log.Warn("notification dropped", zap.String("title", n.Title), zap.Error(err))
	}
}

func cloneLeads(in []entity.Lead) []entity.Lead {
	out := make([]entity.Lead, len(in))
	copy(out, in)
	return out
}
