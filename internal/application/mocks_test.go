package application

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// MockEventRepository is a testify mock of event.Repository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out copies so the service cannot mutate the fixture
	return args.Get(0).(*event.Event).Clone(), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, f event.Filter) ([]*event.Event, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Count(ctx context.Context, f event.Filter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVenueRepository is a testify mock of venue.Repository.
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) List(ctx context.Context) ([]*venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

// MockPublisher is a testify mock of notification.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, msg notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// recordingPublisher captures published messages.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) topics() []notification.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notification.Topic, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.Topic)
	}
	return out
}

// fakeTx counts commits and rollbacks.
type fakeTx struct {
	mgr *fakeTxManager
}

func (t *fakeTx) Commit() error {
	t.mgr.mu.Lock()
	defer t.mgr.mu.Unlock()
	t.mgr.commits++
	return t.mgr.commitErr
}

func (t *fakeTx) Rollback() error {
	t.mgr.mu.Lock()
	defer t.mgr.mu.Unlock()
	t.mgr.rollbacks++
	return nil
}

// fakeTxManager hands out fakeTx values for services tested against mocks.
type fakeTxManager struct {
	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
	commitErr error
}

func (m *fakeTxManager) Begin(context.Context) (transaction.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.begins++
	return &fakeTx{mgr: m}, nil
}

// fakeLocker records lock acquisitions per venue.
type fakeLocker struct {
	mu       sync.Mutex
	locked   []string
	released int
	err      error
}

func (l *fakeLocker) LockVenue(_ context.Context, venueID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, venueID)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, nil
}
