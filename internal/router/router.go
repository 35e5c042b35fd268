package router

import (
	"net/http"
	"strings"

	"pricehunt/internal/handler"
	"pricehunt/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Catalog *handler.CatalogHandler
	Auth    *handler.AuthHandler
	Alert   *handler.AlertHandler
	Admin   *handler.AdminHandler
}

// Options configures access control for the router.
type Options struct {
	APIKey         string
	AllowedOrigins []string
	Tokens         middleware.TokenVerifier
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	adminOnly := middleware.APIKeyAuth(opts.APIKey, logger)
	signedIn := middleware.JWTAuth(opts.Tokens, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", h.Health.Check)

	// Product routes
	mux.HandleFunc("GET /api/products", h.Product.Search)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/products/{id}/history", h.Product.History)
	mux.HandleFunc("GET /api/barcode/{code}", h.Product.GetByBarcode)
	mux.HandleFunc("GET /api/compare", h.Product.Compare)

	// Mock catalogue for the storefront
	mux.HandleFunc("GET /api/catalog", h.Catalog.Search)
	mux.HandleFunc("GET /api/catalog/{id}", h.Catalog.GetByID)
	mux.HandleFunc("GET /api/catalog/barcode/{code}", h.Catalog.GetByBarcode)

	// Accounts
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.Handle("GET /api/me", signedIn(http.HandlerFunc(h.Auth.Me)))

	// Price alerts
	mux.Handle("GET /api/alerts", signedIn(http.HandlerFunc(h.Alert.List)))
	mux.Handle("POST /api/alerts", signedIn(http.HandlerFunc(h.Alert.Create)))
	mux.Handle("DELETE /api/alerts/{id}", signedIn(http.HandlerFunc(h.Alert.Delete)))

	// Price ingestion
	mux.Handle("POST /api/admin/prices", adminOnly(http.HandlerFunc(h.Admin.RecordPrices)))
	mux.Handle("POST /api/admin/feeds/import", adminOnly(http.HandlerFunc(h.Admin.ImportFeeds)))

	// Everything else
	mux.HandleFunc("/", fallback(mux))

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(opts.AllowedOrigins)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID(root)

	return root
}

// routeMethods are tried when a request falls through to the catch-all.
var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// fallback answers 405 with an Allow header when the path is routed for
// other methods, and 404 otherwise.
func fallback(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routeMethods {
			if method == r.Method {
				continue
			}
			probe := r.Clone(r.Context())
			probe.Method = method
			if _, pattern := mux.Handler(probe); pattern != "/" {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			handler.NotFound(w, r)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		handler.MethodNotAllowed(w, r)
	}
}
