package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// MockGateway implements the lead, auth and user gateways.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListLeads(ctx context.Context, embajador string) ([]entity.Lead, error) {
	args := m.Called(ctx, embajador)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockGateway) CreateLead(ctx context.Context, lead entity.LeadInput) (*sheets.Envelope, error) {
	args := m.Called(ctx, lead)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) UpdateLead(ctx context.Context, fila int, cambios entity.LeadChanges) (*sheets.Envelope, error) {
	args := m.Called(ctx, fila, cambios)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) UpdateStage(ctx context.Context, fila int, etapa entity.Stage) (*sheets.Envelope, error) {
	args := m.Called(ctx, fila, etapa)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) DeleteLead(ctx context.Context, fila int) (*sheets.Envelope, error) {
	args := m.Called(ctx, fila)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) ReadRow(ctx context.Context, fila int) (*entity.Lead, error) {
	args := m.Called(ctx, fila)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (*entity.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockGateway) ListUsers(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockGateway) CreateUser(ctx context.Context, input entity.UserInput) (*sheets.Envelope, error) {
	args := m.Called(ctx, input)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) UpdateUser(ctx context.Context, id string, changes entity.UserChanges) (*sheets.Envelope, error) {
	args := m.Called(ctx, id, changes)
	return envelope(args.Get(0)), args.Error(1)
}

func (m *MockGateway) DeleteUser(ctx context.Context, id string) (*sheets.Envelope, error) {
	args := m.Called(ctx, id)
	return envelope(args.Get(0)), args.Error(1)
}

func envelope(v interface{}) *sheets.Envelope {
	if v == nil {
		return nil
	}
	return v.(*sheets.Envelope)
}

// recorder collects notifications.
type recorder struct {
	mu  sync.Mutex
	got []usecase.Notification
}

func (r *recorder) Notify(_ context.Context, n usecase.Notification) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	return nil
}

func (r *recorder) all() []usecase.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]usecase.Notification, len(r.got))
	copy(out, r.got)
	return out
}

func (r *recorder) last() usecase.Notification {
	all := r.all()
	return all[len(all)-1]
}

// mapStore is an in-memory SessionStore.
type mapStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMapStore() *mapStore {
	return &mapStore{blobs: map[string][]byte{}}
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	return b, nil
}

func (s *mapStore) Set(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	s.blobs[key] = blob
	s.mu.Unlock()
	return nil
}

func (s *mapStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *mapStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok
}

func rowPtr(n int) *int { return &n }
