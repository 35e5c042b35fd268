package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricehunt/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAlertHandler_List(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		mockReturn     []model.PriceAlert
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Alerts returned",
			mockReturn:     []model.PriceAlert{{ID: uuid.New(), UserID: userID, ProductID: "P001", TargetPrice: 150, Currency: "USD", Active: true}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "No alerts is an empty array",
			mockReturn:     nil,
			expectedStatus: http.StatusOK,
			expectedBody:   "[]\n",
		},
		{
			name:           "Service error",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAlertService)
			if tt.mockError != nil {
				mockService.On("List", mock.Anything, userID).Return(nil, tt.mockError)
			} else {
				mockService.On("List", mock.Anything, userID).Return(tt.mockReturn, nil)
			}

			w := httptest.NewRecorder()
			NewAlertHandler(mockService, zerolog.Nop()).List(w, newRequest(http.MethodGet, "/api/alerts", "", &userID))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAlertHandler_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"productId":"P001","targetPrice":150,"currency":"USD"}`,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Unknown product",
			body:           `{"productId":"P999","targetPrice":150}`,
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Non-positive target",
			body:           `{"productId":"P001","targetPrice":0}`,
			mockError:      model.ErrInvalidTargetPrice,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Limit reached",
			body:           `{"productId":"P001","targetPrice":150}`,
			mockError:      model.ErrAlertLimit,
			expectedStatus: http.StatusUnprocessableEntity,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAlertService)
			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Create", mock.Anything, userID, mock.AnythingOfType("*model.AlertRequest")).Return(nil, tt.mockError)
				} else {
					mockService.On("Create", mock.Anything, userID, &model.AlertRequest{ProductID: "P001", TargetPrice: 150, Currency: "USD"}).
						Return(&model.PriceAlert{ID: uuid.New(), UserID: userID, ProductID: "P001", TargetPrice: 150, Currency: "USD", Active: true}, nil)
				}
			}

			w := httptest.NewRecorder()
			NewAlertHandler(mockService, zerolog.Nop()).Create(w, newRequest(http.MethodPost, "/api/alerts", tt.body, &userID))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				var alert model.PriceAlert
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alert))
				assert.True(t, alert.Active)
				assert.Equal(t, userID, alert.UserID)
			}
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Create")
			}
		})
	}
}

func TestAlertHandler_Delete(t *testing.T) {
	userID := uuid.New()
	alertID := uuid.New()

	tests := []struct {
		name           string
		pathID         string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Deleted", pathID: alertID.String(), expectedStatus: http.StatusNoContent, expectService: true},
		{name: "Not owner or missing", pathID: alertID.String(), mockError: model.ErrAlertNotFound, expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Malformed id", pathID: "not-a-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAlertService)
			if tt.expectService {
				mockService.On("Delete", mock.Anything, userID, alertID).Return(tt.mockError)
			}

			req := newRequest(http.MethodDelete, "/api/alerts/"+tt.pathID, "", &userID)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			NewAlertHandler(mockService, zerolog.Nop()).Delete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Delete")
			}
		})
	}
}

func TestAlertHandler_RequiresUser(t *testing.T) {
	mockService := new(MockAlertService)
	handler := NewAlertHandler(mockService, zerolog.Nop())

	for _, call := range []func(http.ResponseWriter, *http.Request){handler.List, handler.Create, handler.Delete} {
		w := httptest.NewRecorder()
		call(w, newRequest(http.MethodGet, "/api/alerts", "", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	mockService.AssertNotCalled(t, "List")
}
