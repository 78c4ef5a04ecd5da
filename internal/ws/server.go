package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workshop-backoffice-service/internal/auth"
	"workshop-backoffice-service/internal/config"
	"workshop-backoffice-service/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const refreshDebounce = 300 * time.Millisecond

type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config

	ticketsRealtime *ticketsRealtime
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{
		DB:              db,
		Logger:          logger,
		Config:          cfg,
		ticketsRealtime: newTicketsRealtime(db, logger),
	}
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

// ticketsRealtime fans a single Postgres LISTEN connection out to every
// connected dashboard. Bursts of writes collapse into one refresh
// message per debounce window.
type ticketsRealtime struct {
	db     *pgxpool.Pool
	logger *zap.Logger

	started sync.Once
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	notify  chan struct{}
}

func newTicketsRealtime(db *pgxpool.Pool, logger *zap.Logger) *ticketsRealtime {
	return &ticketsRealtime{
		db:      db,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
		notify:  make(chan struct{}, 1),
	}
}

func (tr *ticketsRealtime) ensureStarted() {
	tr.started.Do(func() {
		go tr.listenLoop(context.Background())
		go tr.debounceLoop()
	})
}

func (tr *ticketsRealtime) subscribe(client *wsClient) (unsubscribe func()) {
	tr.mu.Lock()
	tr.clients[client] = struct{}{}
	tr.mu.Unlock()

	return func() {
		tr.mu.Lock()
		delete(tr.clients, client)
		tr.mu.Unlock()
	}
}

func (tr *ticketsRealtime) broadcast(message any) {
	tr.mu.RLock()
	clients := make([]*wsClient, 0, len(tr.clients))
	for c := range tr.clients {
		clients = append(clients, c)
	}
	tr.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			tr.mu.Lock()
			delete(tr.clients, c)
			tr.mu.Unlock()
		}
	}
}

func (tr *ticketsRealtime) listenLoop(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := tr.db.Acquire(ctx)
		if err != nil {
			if tr.logger != nil {
				tr.logger.Warn("tickets LISTEN acquire failed", zap.Error(err))
			}
			time.Sleep(backoff)
			backoff = minDuration(backoff*2, 30*time.Second)
			continue
		}

		_, err = conn.Exec(ctx, `listen `+store.TicketChangeChannel)
		if err != nil {
			conn.Release()
			if tr.logger != nil {
				tr.logger.Warn("tickets LISTEN failed", zap.Error(err))
			}
			time.Sleep(backoff)
			backoff = minDuration(backoff*2, 30*time.Second)
			continue
		}

		backoff = time.Second
		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				break
			}
			select {
			case tr.notify <- struct{}{}:
			default:
			}
		}

		conn.Release()
		time.Sleep(backoff)
		backoff = minDuration(backoff*2, 30*time.Second)
	}
}

func (tr *ticketsRealtime) debounceLoop() {
	for range tr.notify {
		timer := time.NewTimer(refreshDebounce)
	drain:
		for {
			select {
			case <-tr.notify:
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(refreshDebounce)
			case <-timer.C:
				break drain
			}
		}
		tr.broadcast(map[string]any{"type": "tickets.refresh", "updatedAt": time.Now()})
	}
}

// TicketsWS upgrades a dashboard connection. Browsers cannot set an
// Authorization header on the handshake, so the token rides in the
// query string.
func (s *Server) TicketsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if _, err := auth.VerifyAccessToken(token, s.Config.JWTSecret); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	s.ticketsRealtime.ensureStarted()
	client := &wsClient{conn: conn}
	unsubscribe := s.ticketsRealtime.subscribe(client)
	defer unsubscribe()

	_ = client.writeJSON(map[string]any{"type": "tickets.refresh", "updatedAt": time.Now()})

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	select {
	case <-clientClosed:
	case <-r.Context().Done():
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
