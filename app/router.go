// Package app wires the HTTP handlers onto a router.
package app

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/veo1/go-product-catalog/app/catalog"
	"github.com/veo1/go-product-catalog/app/categories"
	"github.com/veo1/go-product-catalog/models"
)

// RequestIDHeader carries the request correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

func NewRouter(repo *models.CatalogRepository, log zerolog.Logger) http.Handler {
	categoryHandler := categories.NewCategoryHandler(repo)
	catalogHandler := catalog.NewCatalogHandler(repo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", categoryHandler.HandleGetAll)
	mux.HandleFunc("POST /categories", categoryHandler.HandleCreate)
	mux.HandleFunc("DELETE /categories/{id}", categoryHandler.HandleDelete)
	mux.HandleFunc("GET /categories/{id}/products", catalogHandler.HandleListByCategory)
	mux.HandleFunc("POST /products", catalogHandler.HandleCreateProduct)
	mux.HandleFunc("GET /products/{id}", catalogHandler.HandleGetProduct)
	mux.HandleFunc("PUT /products/{id}/category", catalogHandler.HandleUpdateCategory)

	return RequestLogger(log, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with an ID (reusing the caller's
// X-Request-ID when present) and writes one log line per request.
func RequestLogger(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		var event *zerolog.Event
		switch {
		case rec.status >= 500:
			event = log.Error()
		case rec.status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("API")
	})
}
