package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

var (
	adminSession = &usecase.Session{Token: "t-admin", User: entity.User{Name: "Admin", Email: "admin@solar.co", Role: entity.RoleAdmin}}
	anaSession   = &usecase.Session{Token: "t-ana", User: entity.User{Name: "Ana", Email: "ana@solar.co", Role: entity.RoleAmbassador}}
)

func newRepo(sess *usecase.Session) (*usecase.LeadRepository, *MockGateway, *recorder) {
	gw := new(MockGateway)
	rec := &recorder{}
	return usecase.NewLeadRepository(gw, sess, rec, zap.NewNop()), gw, rec
}

func existing() []entity.Lead {
	return []entity.Lead{
		{Name: "Carlos", Stage: entity.StageContact, Row: rowPtr(2)},
		{Name: "Diana", Stage: entity.StageNegotiation, Row: rowPtr(3)},
	}
}

// ============ LISTING ============

func TestListAllScopesAmbassador(t *testing.T) {
	repo, gw, _ := newRepo(anaSession)
	gw.On("ListLeads", mock.Anything, "Ana").Return([]entity.Lead{
		{Name: "uno", Ambassador: "Ana", Row: rowPtr(2)},
		{Name: "dos", Ambassador: "Luis", Row: rowPtr(3)},
		{Name: "tres", Ambassador: "Ana", Row: rowPtr(4)},
	}, nil)

	leads, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)
	for _, l := range leads {
		assert.Equal(t, "Ana", l.Ambassador)
	}
	gw.AssertExpectations(t)
}

func TestListAllUnscopedForAdmin(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil)

	leads, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestListAllAssignsIDsFromRows(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	gw.On("ListLeads", mock.Anything, "").Return([]entity.Lead{
		{Name: "con fila", Row: rowPtr(9)},
		{Name: "sin fila"},
		{Name: "otra sin fila"},
	}, nil)

	leads, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9", leads[0].ID)
	assert.Equal(t, "", leads[1].ID)
	assert.False(t, leads[1].Selectable())
	assert.Equal(t, "con fila", leads[0].Name)
}

func TestListFailureKeepsPreviousSnapshot(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	ctx := context.Background()
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil).Once()
	gw.On("ListLeads", mock.Anything, "").Return(nil, &sheets.HTTPError{Action: "leerTodos", StatusCode: 500}).Once()

	_, err := repo.ListAll(ctx)
	require.NoError(t, err)

	_, err = repo.ListAll(ctx)
	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))

	view := repo.Snapshot()
	assert.Len(t, view.Leads, 2)
	assert.Equal(t, "HTTP 500: Internal Server Error", view.Error)
	assert.False(t, view.Loading)

	n := rec.last()
	assert.Equal(t, "Error de conexión", n.Title)
	assert.Equal(t, usecase.VariantDestructive, n.Variant)
	assert.Equal(t, "t-admin", n.Session)
}

func TestListRejectedWithoutMensajeUsesFallback(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	gw.On("ListLeads", mock.Anything, "").Return(nil, &sheets.RemoteError{Action: "leerTodos"})

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error al leer clientes", err.Error())
}

func TestViewListsOnlyOnceUnlessRefreshed(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	ctx := context.Background()
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil)

	repo.View(ctx, false)
	repo.View(ctx, false)
	gw.AssertNumberOfCalls(t, "ListLeads", 1)

	repo.View(ctx, true)
	gw.AssertNumberOfCalls(t, "ListLeads", 2)
}

// ============ MUTATIONS ============

func TestCreateSuccessRefetchesExactlyOnce(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	ctx := context.Background()

	input := entity.NewLeadInput()
	input.Name = "Nuevo Cliente"

	after := append(existing(), entity.Lead{Name: "Nuevo Cliente", Stage: entity.StageContact, Row: rowPtr(4)})
	gw.On("CreateLead", mock.Anything, input).Return(&sheets.Envelope{OK: true, Mensaje: "Guardado en fila 4"}, nil).Once()
	gw.On("ListLeads", mock.Anything, "").Return(after, nil).Once()

	require.NoError(t, repo.Create(ctx, input))

	gw.AssertNumberOfCalls(t, "ListLeads", 1)
	view := repo.Snapshot()
	require.Len(t, view.Leads, 3)
	assert.Equal(t, "Nuevo Cliente", view.Leads[2].Name)

	notes := rec.all()
	require.NotEmpty(t, notes)
	assert.Equal(t, "✅ Cliente creado", notes[0].Title)
	assert.Equal(t, "Guardado en fila 4", notes[0].Description)
	assert.Equal(t, usecase.VariantDefault, notes[0].Variant)
}

func TestCreateLogsAssignedRow(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gw := new(MockGateway)
	repo := usecase.NewLeadRepository(gw, adminSession, &recorder{}, zap.New(core))

	input := entity.NewLeadInput()
	input.Name = "Nuevo Cliente"
	gw.On("CreateLead", mock.Anything, input).Return(&sheets.Envelope{OK: true, Fila: rowPtr(7)}, nil).Once()
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil).Once()

	require.NoError(t, repo.Create(context.Background(), input))

	created := logs.FilterMessage("lead created").All()
	require.Len(t, created, 1)
	assert.Equal(t, int64(7), created[0].ContextMap()["fila"])
}

func TestCreateRejectedDoesNotRefetch(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)

	input := entity.NewLeadInput()
	input.Name = "Otro"
	gw.On("CreateLead", mock.Anything, input).Return(&sheets.Envelope{OK: false, Mensaje: "x"}, &sheets.RemoteError{Action: "crear", Message: "x"})

	err := repo.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "x", err.Error())
	assert.True(t, usecase.IsDomainError(err))

	gw.AssertNotCalled(t, "ListLeads", mock.Anything, mock.Anything)
	n := rec.last()
	assert.Equal(t, "❌ Error", n.Title)
	assert.Equal(t, "x", n.Description)
	assert.Equal(t, usecase.VariantDestructive, n.Variant)
}

func TestCreateRejectedWithoutMensajeUsesFallback(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	input := entity.NewLeadInput()
	input.Name = "Otro"
	gw.On("CreateLead", mock.Anything, input).Return(nil, &sheets.RemoteError{Action: "crear"})

	err := repo.Create(context.Background(), input)
	assert.EqualError(t, err, "Error al crear")
}

func TestCreateInvalidInputNeverReachesGateway(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)

	input := entity.NewLeadInput()
	input.ProposedValue = -1

	err := repo.Create(context.Background(), input)
	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
	assert.Contains(t, de.Message, "nombre")
	assert.Contains(t, de.Message, "valorPropuesta")

	gw.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
	assert.Equal(t, usecase.VariantDestructive, rec.last().Variant)
}

func TestUpdateNetworkFailureLeavesSnapshot(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	ctx := context.Background()
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil).Once()
	_, err := repo.ListAll(ctx)
	require.NoError(t, err)

	city := "Tumaco"
	changes := entity.LeadChanges{City: &city}
	gw.On("UpdateLead", mock.Anything, 2, changes).Return(nil, &sheets.NetworkError{Action: "actualizar", Err: errors.New("dial tcp: refused")})

	err = repo.Update(ctx, 2, changes)
	require.Error(t, err)
	assert.Equal(t, sheets.NetworkMessage, err.Error())
	assert.True(t, usecase.IsTechnicalError(err))

	gw.AssertNumberOfCalls(t, "ListLeads", 1)
	assert.Equal(t, existing()[0].City, repo.Snapshot().Leads[0].City)
	assert.Equal(t, sheets.NetworkMessage, rec.last().Description)
}

func TestUpdateSuccess(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	name := "Carlos Andrés"
	changes := entity.LeadChanges{Name: &name}
	gw.On("UpdateLead", mock.Anything, 2, changes).Return(&sheets.Envelope{OK: true, Mensaje: "Actualizado"}, nil)
	gw.On("ListLeads", mock.Anything, "").Return(existing(), nil).Once()

	require.NoError(t, repo.Update(context.Background(), 2, changes))
	gw.AssertNumberOfCalls(t, "ListLeads", 1)
	assert.Equal(t, "✅ Cliente actualizado", rec.all()[0].Title)
}

func TestUpdateStageAllowsAnyTarget(t *testing.T) {
	ctx := context.Background()
	for _, target := range entity.Transitions(entity.StageNegotiation) {
		repo, gw, rec := newRepo(adminSession)
		gw.On("ListLeads", mock.Anything, "").Return(existing(), nil)
		_, err := repo.ListAll(ctx)
		require.NoError(t, err)

		gw.On("UpdateStage", mock.Anything, 3, target).Return(&sheets.Envelope{OK: true, Mensaje: "ok"}, nil)

		require.NoError(t, repo.UpdateStage(ctx, 3, target), "negociacion -> %s", target)
		gw.AssertNumberOfCalls(t, "ListLeads", 2)

		n := rec.all()[0]
		assert.Equal(t, "✅ Etapa actualizada", n.Title)
		assert.Empty(t, n.Description)
	}
}

func TestUpdateStageRejectsUnknownStage(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)

	err := repo.UpdateStage(context.Background(), 3, entity.Stage("cierre"))
	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_STAGE", de.Code)
	gw.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	gw.On("DeleteLead", mock.Anything, 3).Return(&sheets.Envelope{OK: true, Mensaje: "Eliminado"}, nil)
	gw.On("ListLeads", mock.Anything, "").Return(existing()[:1], nil).Once()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.Len(t, repo.Snapshot().Leads, 1)
	assert.Equal(t, "🗑️ Cliente eliminado", rec.all()[0].Title)
}

func TestDeleteRejectedFallback(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	gw.On("DeleteLead", mock.Anything, 3).Return(nil, &sheets.RemoteError{Action: "eliminar"})

	assert.EqualError(t, repo.Delete(context.Background(), 3), "Error al eliminar")
	gw.AssertNotCalled(t, "ListLeads", mock.Anything, mock.Anything)
}

func TestMutationsRequireRow(t *testing.T) {
	repo, gw, _ := newRepo(adminSession)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, 0, entity.LeadChanges{}), usecase.ErrNotSelectable)
	assert.ErrorIs(t, repo.UpdateStage(ctx, -1, entity.StageWon), usecase.ErrNotSelectable)
	assert.ErrorIs(t, repo.Delete(ctx, 0), usecase.ErrNotSelectable)
	_, err := repo.Read(ctx, 0)
	assert.ErrorIs(t, err, usecase.ErrNotSelectable)

	assert.Empty(t, gw.Calls)
}

// ============ READ ============

func TestReadRespectsScope(t *testing.T) {
	repo, gw, _ := newRepo(anaSession)
	gw.On("ReadRow", mock.Anything, 5).Return(&entity.Lead{Name: "ajeno", Ambassador: "Luis", Row: rowPtr(5)}, nil)
	gw.On("ReadRow", mock.Anything, 6).Return(&entity.Lead{Name: "propio", Ambassador: "Ana", Row: rowPtr(6)}, nil)

	_, err := repo.Read(context.Background(), 5)
	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)

	lead, err := repo.Read(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "6", lead.ID)
}

// ============ CANCELLATION ============

func TestCanceledListDoesNotNotify(t *testing.T) {
	repo, gw, rec := newRepo(adminSession)
	gw.On("ListLeads", mock.Anything, "").Return(nil, context.Canceled).Once()

	_, err := repo.ListAll(context.Background())
	var te *usecase.TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "CANCELED", te.Code)
	assert.Empty(t, rec.all())
}
