package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"recruitportal/internal/http/handlers"
	"recruitportal/internal/http/metrics"
	httpmw "recruitportal/internal/http/middleware"
)

type RouterDependencies struct {
	ApplicationHandler *handlers.ApplicationHandler
	BulkHandler        *handlers.BulkHandler
	ExportHandler      *handlers.ExportHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Limiter            httpmw.Limiter
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
	MaxUploadBytes     int64
	SubmitPerMinute    int
	TrackPerMinute     int
	AllowedOrigins     []string
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	jsonBody := httpmw.BodyLimit(maxBodyBytes)
	uploadBody := httpmw.BodyLimit(deps.MaxUploadBytes)
	admin := func(h http.HandlerFunc, body httpmw.Middleware) http.Handler {
		return httpmw.Chain(h, body, deps.AuthMiddleware.RequireAdmin)
	}
	limited := func(h http.HandlerFunc, prefix string, perMinute int) http.Handler {
		return httpmw.Chain(h, jsonBody, httpmw.RateLimit(deps.Limiter, httpmw.KeyByIP(prefix), perMinute, time.Minute))
	}

	api := router.PathPrefix("/api").Subrouter()
	apps := deps.ApplicationHandler
	bulk := deps.BulkHandler

	api.Handle("/applications", limited(apps.Submit, "submit", deps.SubmitPerMinute)).Methods(http.MethodPost)
	api.Handle("/applications/track", limited(apps.Track, "track", deps.TrackPerMinute)).Methods(http.MethodPost)

	api.Handle("/applications", admin(apps.List, jsonBody)).Methods(http.MethodGet)
	api.Handle("/admin/applications", admin(apps.Create, jsonBody)).Methods(http.MethodPost)
	api.Handle("/applications/stats", admin(apps.Stats, jsonBody)).Methods(http.MethodGet)
	api.Handle("/applications/export", admin(deps.ExportHandler.Export, jsonBody)).Methods(http.MethodGet)
	api.Handle("/applications/template", admin(bulk.Template, jsonBody)).Methods(http.MethodGet)
	api.Handle("/applications/bulk", admin(bulk.Import, uploadBody)).Methods(http.MethodPost)
	api.Handle("/applications/bulk/debug", admin(bulk.Debug, uploadBody)).Methods(http.MethodPost)
	api.Handle("/applications/bulk/validate", admin(bulk.Validate, uploadBody)).Methods(http.MethodPost)
	api.Handle("/applications/bulk/fix", admin(bulk.Fix, uploadBody)).Methods(http.MethodPost)

	const byID = "/applications/{id:[0-9a-fA-F-]{36}}"
	api.Handle(byID, admin(apps.Get, jsonBody)).Methods(http.MethodGet)
	api.Handle(byID, admin(apps.Update, jsonBody)).Methods(http.MethodPut)
	api.Handle(byID, admin(apps.Delete, jsonBody)).Methods(http.MethodDelete)
	api.Handle(byID+"/status", admin(apps.UpdateStatus, jsonBody)).Methods(http.MethodPatch)

	handler := httpmw.Chain(router,
		httpmw.RequestID,
		httpmw.Logging,
		httpmw.Recover,
		httpmw.Metrics(observer(deps.Metrics)),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return corsFor(deps.AllowedOrigins).Handler(handler)
}

// observer keeps a nil collector from becoming a non-nil interface.
func observer(collector *metrics.Collector) httpmw.RequestObserver {
	if collector == nil {
		return nil
	}
	return collector
}

func corsFor(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", httpmw.RequestIDHeader},
		ExposedHeaders: []string{httpmw.RequestIDHeader, "Content-Disposition"},
		MaxAge:         600,
	})
}
