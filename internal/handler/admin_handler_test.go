package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricehunt/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_RecordPrices(t *testing.T) {
	updates := []model.PriceUpdate{
		{StoreID: "megamart", ProductID: "P001", Price: 189.5, Currency: "USD", InStock: true},
	}

	tests := []struct {
		name           string
		body           string
		mockRecorded   int
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"updates":[{"storeId":"megamart","productId":"P001","price":189.5,"currency":"USD","inStock":true}]}`,
			mockRecorded:   1,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Validation error",
			body:           `{"updates":[{"storeId":"megamart","productId":"P001","price":189.5,"currency":"USD","inStock":true}]}`,
			mockError:      model.NewDomainError(model.ErrCodeInvalidPrice, "update 0: price must be greater than zero"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Database error",
			body:           `{"updates":[{"storeId":"megamart","productId":"P001","price":189.5,"currency":"USD","inStock":true}]}`,
			mockError:      errors.New("failed to record prices: connection reset"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `{"updates":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := new(MockPriceService)
			if tt.expectService {
				prices.On("RecordPrices", mock.Anything, updates).Return(tt.mockRecorded, tt.mockError)
			}

			w := httptest.NewRecorder()
			NewAdminHandler(prices, new(MockImporter), zerolog.Nop()).
				RecordPrices(w, newRequest(http.MethodPost, "/api/admin/prices", tt.body, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"recorded":1}`, w.Body.String())
			}
			if tt.expectService {
				prices.AssertExpectations(t)
			} else {
				prices.AssertNotCalled(t, "RecordPrices")
			}
		})
	}
}

func TestAdminHandler_ImportFeeds(t *testing.T) {
	paths := []string{"megamart.csv.gz", "bytebay.csv.gz"}

	t.Run("Partial failure is reported per feed", func(t *testing.T) {
		importer := new(MockImporter)
		importer.On("Import", mock.Anything, paths).Return(&model.ImportResult{
			Feeds: []model.FeedResult{
				{Path: "megamart.csv.gz", Rows: 3, Recorded: 3},
				{Path: "bytebay.csv.gz", Error: "file not found"},
			},
			Recorded: 3,
			Failed:   1,
		}, errors.New("file not found"))

		w := httptest.NewRecorder()
		NewAdminHandler(new(MockPriceService), importer, zerolog.Nop()).
			ImportFeeds(w, newRequest(http.MethodPost, "/api/admin/feeds/import", `{"paths":["megamart.csv.gz","bytebay.csv.gz"]}`, nil))

		require.Equal(t, http.StatusOK, w.Code)
		var result model.ImportResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 3, result.Recorded)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, "file not found", result.Feeds[1].Error)
		importer.AssertExpectations(t)
	})

	t.Run("Missing paths", func(t *testing.T) {
		importer := new(MockImporter)

		w := httptest.NewRecorder()
		NewAdminHandler(new(MockPriceService), importer, zerolog.Nop()).
			ImportFeeds(w, newRequest(http.MethodPost, "/api/admin/feeds/import", `{"paths":[]}`, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), model.ErrCodeMissingField)
		importer.AssertNotCalled(t, "Import")
	})

	t.Run("Importer failure without result", func(t *testing.T) {
		importer := new(MockImporter)
		importer.On("Import", mock.Anything, []string{"a.gz"}).Return(nil, errors.New("boom"))

		w := httptest.NewRecorder()
		NewAdminHandler(new(MockPriceService), importer, zerolog.Nop()).
			ImportFeeds(w, newRequest(http.MethodPost, "/api/admin/feeds/import", `{"paths":["a.gz"]}`, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
