package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const (
	readBufferSize  = 1024
	writeBufferSize = 1024
	maxMessageSize  = 512
	shutdownTimeout = 5 * time.Second
	closeTimeout    = time.Second
)

type gameManager interface {
	NewSession() *usecase.GameSession
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Request) error

// connection is one client with its own game session.
type connection struct {
	socket  *websocket.Conn
	session *usecase.GameSession
	logger  *slog.Logger
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// connections counts hijacked sockets, http.Server.Shutdown does not wait for them.
	connections sync.WaitGroup
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[TypeChoice] = server.handleChoice
	server.handlers[TypeReset] = server.handleReset

	return server
}

// Handler - returns the HTTP handler serving the WebSocket endpoint at path.
func (that *Server) Handler(ctx context.Context, path string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		that.serveWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server. When ctx is done it closes every open
// connection and returns once their sessions are torn down.
func (that *Server) Start(ctx context.Context, port, path string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx, path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-shutdownDone
	that.connections.Wait()

	return nil
}

// serveWebSocket - upgrades the connection and plays one session until the client leaves.
func (that *Server) serveWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	that.connections.Add(1)
	defer that.connections.Done()

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer socket.Close()

	socket.SetReadLimit(maxMessageSize)

	// unblock the read loop on shutdown
	stopClosing := context.AfterFunc(ctx, func() {
		closeGoingAway(log, socket)
	})
	defer stopClosing()

	session := that.manager.NewSession()
	conn := &connection{
		socket:  socket,
		session: session,
		logger:  log.With("sessionID", session.ID()),
	}

	defer session.Close(context.WithoutCancel(ctx))

	conn.logger.Info("WebSocket connection established")

	if err = that.sendStart(ctx, conn); err != nil {
		conn.logger.Error("failed to send start", "error", err)
		return
	}

	if err = that.handleMessages(ctx, conn); err != nil {
		conn.logger.Error("error handling messages", "error", err)
		return
	}

	conn.logger.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client one at a time, in order.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := conn.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.socket.ReadMessage()
		if err != nil {
			if isClosedByClient(err) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Request
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			log.Warn("unknown message type", "type", message.Type)
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			return fmt.Errorf("failed to process %s message: %w", message.Type, err)
		}
	}
}

func isClosedByClient(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

// closeGoingAway - tells the client the server is leaving, then drops the socket.
func closeGoingAway(log *slog.Logger, socket *websocket.Conn) {
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := socket.WriteControl(websocket.CloseMessage, message, time.Now().Add(closeTimeout)); err != nil {
		log.Debug("failed to send close message", "error", err)
	}

	if err := socket.Close(); err != nil {
		log.Debug("failed to close socket", "error", err)
	}
}
