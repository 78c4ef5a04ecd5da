package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-backoffice-service/internal/config"
	"workshop-backoffice-service/internal/http/handlers"
	"workshop-backoffice-service/internal/middleware"
	"workshop-backoffice-service/internal/queue"
	"workshop-backoffice-service/internal/storage"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/internal/taxperiod"
	"workshop-backoffice-service/internal/ws"
)

func NewRouter(
	db *pgxpool.Pool,
	logger *zap.Logger,
	cfg config.Config,
	queueClient *queue.Client,
	objects *storage.ObjectStore,
	wsServer *ws.Server,
) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}
		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}
		r.Use(cors.Handler(options))
	}

	st := store.New(db)
	tracker := taxperiod.New(st, time.Now)
	h := &handlers.Handler{
		DB:      db,
		Store:   st,
		Logger:  logger,
		Config:  cfg,
		Queue:   queueClient,
		Objects: objects,
		Tracker: tracker,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/api/auth/login", h.WorkerLogin)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/tickets/{id}/status", h.PublicTicketStatus)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.WorkerAuth(db, cfg.JWTSecret))

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.TicketsList)
			r.Post("/", h.TicketCreate)
			r.Get("/{id}", h.TicketGet)
			r.Patch("/{id}", h.TicketPatch)
			r.Patch("/{id}/status", h.TicketStatusUpdate)
			r.Get("/{id}/invoice", h.TicketInvoiceHTML)
			r.Get("/{id}/invoice.pdf", h.TicketInvoicePDF)
			r.Get("/{id}/photos", h.TicketPhotosList)
			r.Post("/{id}/photos", h.TicketPhotoUpload)
			r.Delete("/{id}/photos/{photoId}", h.TicketPhotoDelete)
		})

		r.Get("/tax/kpi", h.TaxKpi)
		r.Get("/settings/tax-rate", h.TaxRateGet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ManagerOnly())

			r.Get("/reports/summary", h.ReportsSummary)
			r.Get("/reports/revenue-by-worker", h.ReportsRevenueByWorker)

			r.Post("/tax/period/reset", h.TaxPeriodReset)
			r.Put("/settings/tax-rate", h.TaxRateUpdate)

			r.Get("/workers", h.WorkersList)
			r.Post("/workers", h.WorkerCreate)
			r.Patch("/workers/{id}", h.WorkerUpdate)
			r.Delete("/workers/{id}", h.WorkerDelete)
		})
	})

	if wsServer != nil {
		r.Get("/ws/tickets", wsServer.TicketsWS)
	}

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
