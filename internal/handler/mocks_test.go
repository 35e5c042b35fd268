package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"pricehunt/internal/middleware"
	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Search(ctx context.Context, params model.SearchParams) (*model.SearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResult), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductDetail), args.Error(1)
}

func (m *MockProductService) GetByBarcode(ctx context.Context, code string) (*model.ProductDetail, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductDetail), args.Error(1)
}

func (m *MockProductService) Compare(ctx context.Context, ids []string) (*model.Comparison, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comparison), args.Error(1)
}

func (m *MockProductService) History(ctx context.Context, productID string, days int, storeID string) (*model.PriceHistory, error) {
	args := m.Called(ctx, productID, days, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceHistory), args.Error(1)
}

// MockPriceService is a mock implementation of PriceService.
type MockPriceService struct {
	mock.Mock
}

func (m *MockPriceService) RecordPrices(ctx context.Context, updates []model.PriceUpdate) (int, error) {
	args := m.Called(ctx, updates)
	return args.Int(0), args.Error(1)
}

// MockAlertService is a mock implementation of AlertService.
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) Create(ctx context.Context, userID uuid.UUID, req *model.AlertRequest) (*model.PriceAlert, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceAlert), args.Error(1)
}

func (m *MockAlertService) List(ctx context.Context, userID uuid.UUID) ([]model.PriceAlert, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceAlert), args.Error(1)
}

func (m *MockAlertService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockAlertService) ListActive(ctx context.Context) ([]model.PriceAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceAlert), args.Error(1)
}

func (m *MockAlertService) Evaluate(ctx context.Context, alert model.PriceAlert) (float64, bool, error) {
	args := m.Called(ctx, alert)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockAlertService) MarkTriggered(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockImporter is a mock implementation of FeedImporter.
type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Import(ctx context.Context, paths []string) (*model.ImportResult, error) {
	args := m.Called(ctx, paths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// newRequest builds a request, optionally with a JSON body and an
// authenticated user.
func newRequest(method, target, body string, userID *uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *userID))
	}
	return req
}

func ptr(f float64) *float64 { return &f }
