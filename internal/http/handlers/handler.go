package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-backoffice-service/internal/config"
	"workshop-backoffice-service/internal/queue"
	"workshop-backoffice-service/internal/storage"
	"workshop-backoffice-service/internal/store"
	"workshop-backoffice-service/internal/taxperiod"
)

type Handler struct {
	DB      *pgxpool.Pool
	Store   *store.Store
	Logger  *zap.Logger
	Config  config.Config
	Queue   *queue.Client
	Objects *storage.ObjectStore
	Tracker *taxperiod.Tracker
}
