// File: internal/services/sync/server.go
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Ayaf-Bless/secureChat/internal/middleware"
)

var liveSenders = []string{"Alice", "Bob", "Mallory", "Trent"}

const liveBody = "New message from sync simulator"

// wsConn pairs a websocket connection with a write mutex so the broadcast
// goroutine and the per-connection pong writer never interleave frames.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) close() {
	_ = c.conn.Close()
}

// Server simulates a live feed of inbound chat activity: it answers ping
// probes per connection and periodically broadcasts fabricated new-message
// events to every active connection.
type Server struct {
	config   *ServerConfig
	logger   Logger
	upgrader websocket.Upgrader

	clientMu sync.RWMutex
	clients  map[*wsConn]struct{}

	chatIDs    []string
	listener   net.Listener
	httpServer *http.Server
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewServer(config *ServerConfig, logger Logger) (*Server, error) {
	if config == nil {
		config = DefaultServerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	if logger == nil {
		return nil, NewConfigError("logger is required")
	}

	return &Server{
		config:   config,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*wsConn]struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start binds the listener and launches the HTTP server and the broadcast
// emitter. chatIDs is the working set the emitter draws from.
func (s *Server) Start(chatIDs []string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return NewConnectionError("listen", fmt.Sprintf("could not bind %s", addr), err)
	}
	s.listener = listener
	s.chatIDs = append([]string(nil), chatIDs...)

	router := mux.NewRouter()
	router.Use(middleware.RecoverPanic(s.logger))
	router.Use(middleware.RequestLogger(s.logger))
	router.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	s.httpServer = &http.Server{Handler: router}

	s.wg.Add(2)
	go s.serveHTTP()
	go s.emitLoop()

	s.logger.Info("sync endpoint listening", "addr", listener.Addr().String())
	return nil
}

// Port reports the bound listening port for client discovery.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *Server) serveHTTP() {
	defer s.wg.Done()
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("sync endpoint serve failed", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsConn{conn: conn}
	s.clientMu.Lock()
	s.clients[client] = struct{}{}
	total := len(s.clients)
	s.clientMu.Unlock()
	s.logger.Info("sync client connected", "total_clients", total)

	defer func() {
		s.removeClient(client)
		client.close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Malformed payloads are silently discarded.
			continue
		}
		if frame.Type == TypePing {
			if err := client.writeJSON(Frame{Type: TypePong}); err != nil {
				return
			}
		}
		// Unknown types fall through untouched.
	}
}

func (s *Server) removeClient(client *wsConn) {
	s.clientMu.Lock()
	delete(s.clients, client)
	remaining := len(s.clients)
	s.clientMu.Unlock()
	s.logger.Info("sync client disconnected", "total_clients", remaining)
}

func (s *Server) emitLoop() {
	defer s.wg.Done()
	for {
		delay := s.config.EmitMinInterval
		if span := s.config.EmitMaxInterval - s.config.EmitMinInterval; span > 0 {
			delay += time.Duration(rand.Int63n(int64(span)))
		}
		select {
		case <-s.done:
			return
		case <-time.After(delay):
		}
		s.emitSyntheticMessage()
	}
}

// emitSyntheticMessage fabricates one message for a random chat in the
// working set and broadcasts it to every active connection. Connections
// that fail the write are dropped without failing the broadcast.
func (s *Server) emitSyntheticMessage() {
	snapshot := s.snapshotClients()
	if len(snapshot) == 0 || len(s.chatIDs) == 0 {
		return
	}

	now := time.Now().UnixMilli()
	payload := NewMessagePayload{
		ChatID:    s.chatIDs[rand.Intn(len(s.chatIDs))],
		MessageID: fmt.Sprintf("live-%d-%s", now, uuid.NewString()[:8]),
		Ts:        now,
		Sender:    liveSenders[rand.Intn(len(liveSenders))],
		Body:      liveBody,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("could not encode synthetic message", "error", err)
		return
	}
	frame := Frame{Type: TypeNewMessage, Payload: raw}

	for _, client := range snapshot {
		if err := client.writeJSON(frame); err != nil {
			client.close()
			s.removeClient(client)
		}
	}
	s.logger.Debug("broadcast synthetic message", "chat_id", payload.ChatID, "clients", len(snapshot))
}

func (s *Server) snapshotClients() []*wsConn {
	s.clientMu.RLock()
	defer s.clientMu.RUnlock()
	snapshot := make([]*wsConn, 0, len(s.clients))
	for client := range s.clients {
		snapshot = append(snapshot, client)
	}
	return snapshot
}

// DropConnections closes every open connection immediately. Administrative
// chaos hook; clients observe an ordinary close.
func (s *Server) DropConnections() {
	snapshot := s.snapshotClients()
	for _, client := range snapshot {
		client.close()
	}
	s.logger.Info("dropped all sync connections", "count", len(snapshot))
}

// Shutdown stops the emitter, closes live connections, and shuts the HTTP
// server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	s.DropConnections()
	err := s.httpServer.Shutdown(ctx)
	s.wg.Wait()
	return err
}
