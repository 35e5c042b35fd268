package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pricehunt/internal/auth"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTAuth(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewTokenIssuer(testSecret, time.Hour, func() time.Time { return now })
	userID := uuid.New()

	valid, _, err := issuer.Issue(userID, "ada@example.com")
	require.NoError(t, err)

	otherIssuer := auth.NewTokenIssuer(strings.Repeat("x", 32), time.Hour, func() time.Time { return now })
	forged, _, err := otherIssuer.Issue(userID, "ada@example.com")
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid token",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Lowercase scheme",
			header:         "bearer " + valid,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			header:         "Basic " + valid,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Forged token",
			header:         "Bearer " + forged,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage token",
			header:         "Bearer not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				gotID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTAuth(issuer, zerolog.Nop())(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			if tt.expectHandler {
				assert.Equal(t, userID, gotID)
			} else {
				assert.Contains(t, w.Body.String(), `"error":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)

	want := uuid.New()
	id, ok = UserIDFromContext(WithUserID(req.Context(), want))
	assert.True(t, ok)
	assert.Equal(t, want, id)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "Generated when absent", incoming: "", keep: false},
		{name: "Client id is kept", incoming: "abc-123", keep: true},
		{name: "Oversized id is replaced", incoming: strings.Repeat("a", 200), keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}
