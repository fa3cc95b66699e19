package api

import (
	"context"
	"encoding/json"

	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/stretchr/testify/mock"
)

func responseArgs(args mock.Arguments) (*commerce.Response, error) {
	var resp *commerce.Response
	if r := args.Get(0); r != nil {
		resp = r.(*commerce.Response)
	}
	return resp, args.Error(1)
}

type MockOrdersUseCase struct {
	mock.Mock
}

func (m *MockOrdersUseCase) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, req))
}

func (m *MockOrdersUseCase) CheckPaid(ctx context.Context, orderID int64) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, orderID))
}

func (m *MockOrdersUseCase) OrderTickets(ctx context.Context, orderID string) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, orderID))
}

func (m *MockOrdersUseCase) ConfirmOrder(ctx context.Context, req domain.ConfirmOrderRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) RequestMagicLink(ctx context.Context, email string) {
	m.Called(ctx, email)
}

func (m *MockAuthUseCase) ForgotPassword(ctx context.Context, email string) {
	m.Called(ctx, email)
}

func (m *MockAuthUseCase) Login(ctx context.Context, req domain.LoginRequest) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, req))
}

func (m *MockAuthUseCase) LoginWithMagicLink(ctx context.Context, req domain.MagicLinkLogin) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, req))
}

func (m *MockAuthUseCase) SetPassword(ctx context.Context, req domain.SetPasswordRequest) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, req))
}

type MockTicketsUseCase struct {
	mock.Mock
}

func (m *MockTicketsUseCase) Mine(ctx context.Context, userToken string) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, userToken))
}

func (m *MockTicketsUseCase) Update(ctx context.Context, userToken, prodInfoID string, body json.RawMessage) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, userToken, prodInfoID, body))
}

func (m *MockTicketsUseCase) Scan(ctx context.Context, token string) (*domain.ScanResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScanResult), args.Error(1)
}

func (m *MockTicketsUseCase) SendAccessEmail(ctx context.Context, access domain.TicketAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

type MockStaffUseCase struct {
	mock.Mock
}

func (m *MockStaffUseCase) Login(ctx context.Context, code string) (*commerce.Response, bool, error) {
	args := m.Called(ctx, code)
	var resp *commerce.Response
	if r := args.Get(0); r != nil {
		resp = r.(*commerce.Response)
	}
	return resp, args.Bool(1), args.Error(2)
}

type MockContentUseCase struct {
	mock.Mock
}

func (m *MockContentUseCase) FAQs(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *MockContentUseCase) RefreshFAQs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockContentUseCase) Subscribe(ctx context.Context, sub domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockContentUseCase) SubmitSponsorLead(ctx context.Context, lead domain.SponsorLead) (*commerce.Response, error) {
	return responseArgs(m.Called(ctx, lead))
}

func (m *MockContentUseCase) Sponsors(ctx context.Context) []json.RawMessage {
	args := m.Called(ctx)
	return args.Get(0).([]json.RawMessage)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Take(ctx context.Context, key string, b cache.Bucket) (cache.Decision, error) {
	args := m.Called(ctx, key, b)
	return args.Get(0).(cache.Decision), args.Error(1)
}
