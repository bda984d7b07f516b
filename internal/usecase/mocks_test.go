package usecase

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/stretchr/testify/mock"

	"github.com/nickppf/nickppf-api/internal/entity"
	"github.com/nickppf/nickppf-api/internal/infra/queue"
)

type MockLeadSheet struct {
	mock.Mock
}

func (m *MockLeadSheet) AppendLead(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadSheet) ListLeads(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadSheet) SetOrderID(ctx context.Context, lead *entity.Lead, orderID string) error {
	return m.Called(ctx, lead, orderID).Error(0)
}

type MockOrderCMS struct {
	mock.Mock
}

func (m *MockOrderCMS) FindClientByEmail(ctx context.Context, email string) (*entity.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockOrderCMS) FindRoleIDByName(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockOrderCMS) CreateClient(ctx context.Context, client *entity.Client) (string, error) {
	args := m.Called(ctx, client)
	return args.String(0), args.Error(1)
}

func (m *MockOrderCMS) CreateOrder(ctx context.Context, order *entity.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

type MockContentReader struct {
	mock.Mock
}

func (m *MockContentReader) Items(ctx context.Context, collection string, query url.Values, out any) error {
	args := m.Called(ctx, collection, query, out)
	if raw, ok := args.Get(0).(string); ok {
		return json.Unmarshal([]byte(raw), out)
	}
	return args.Error(1)
}

func (m *MockContentReader) Item(ctx context.Context, collection, id string, out any) error {
	args := m.Called(ctx, collection, id, out)
	if raw, ok := args.Get(0).(string); ok {
		return json.Unmarshal([]byte(raw), out)
	}
	return args.Error(1)
}

func (m *MockContentReader) Count(ctx context.Context, collection string) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadSubmitted(ctx context.Context, event queue.LeadSubmittedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockClaimStore struct {
	mock.Mock
}

func (m *MockClaimStore) Claim(ctx context.Context, submissionID string) (Claim, error) {
	args := m.Called(ctx, submissionID)
	return args.Get(0).(Claim), args.Error(1)
}

func (m *MockClaimStore) Complete(ctx context.Context, submissionID, orderID string) error {
	return m.Called(ctx, submissionID, orderID).Error(0)
}

func (m *MockClaimStore) Release(ctx context.Context, submissionID string) error {
	return m.Called(ctx, submissionID).Error(0)
}

func (m *MockClaimStore) Forget(ctx context.Context, submissionID string) error {
	return m.Called(ctx, submissionID).Error(0)
}
