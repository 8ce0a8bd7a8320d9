package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	game "github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	closeTimeout     = time.Second
	prompt           = "> "
	help             = "type 0-8 to pick a cell, r to reset, q to quit\n"
)

// Client plays one game session against the server from a terminal.
type Client struct {
	logger *slog.Logger
	socket *websocket.Conn

	mu  sync.Mutex
	out io.Writer
}

// Dial - connects to the game server at addr, e.g. ws://localhost:8080/ws.
func Dial(ctx context.Context, logger *slog.Logger, addr string, out io.Writer) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	socket, resp, err := dialer.DialContext(ctx, addr, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	return &Client{
		logger: logger.With("component", "client"),
		socket: socket,
		out:    out,
	}, nil
}

func (that *Client) Close() error {
	return that.socket.Close()
}

// Play - sends commands read from in and prints every reply until the user
// quits, input ends, the server goes away or ctx is done.
func (that *Client) Play(ctx context.Context, in io.Reader) error {
	log := that.logger.With("method", "Play")

	readErrCh := make(chan error, 1)
	go func() {
		readErrCh <- that.readReplies()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	that.print(help)

	for {
		select {
		case <-ctx.Done():
			return that.quit(readErrCh)
		case err := <-readErrCh:
			return err
		case line, ok := <-lines:
			if !ok {
				return that.quit(readErrCh)
			}

			cmd, err := parseCommand(line)
			if err != nil {
				that.print(err.Error() + "\n" + help + prompt)
				continue
			}

			if cmd.kind == commandQuit {
				return that.quit(readErrCh)
			}

			if err = that.send(cmd); err != nil {
				log.Error("failed to send command", "error", err)
				return err
			}
		}
	}
}

func (that *Client) send(cmd command) error {
	var request game.Request

	switch cmd.kind {
	case commandReset:
		request = game.NewReset()
	default:
		request = game.NewChoice(cmd.cell)
	}

	if err := that.socket.WriteJSON(request); err != nil {
		return fmt.Errorf("failed to send %s: %w", request.Type, err)
	}

	return nil
}

// readReplies - prints replies until the connection is closed.
func (that *Client) readReplies() error {
	for {
		var response game.Response
		if err := that.socket.ReadJSON(&response); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read reply: %w", err)
		}

		that.print(Render(response) + prompt)
	}
}

// quit - says goodbye and waits for the server to confirm the close.
func (that *Client) quit(readErrCh <-chan error) error {
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	deadline := time.Now().Add(closeTimeout)

	if err := that.socket.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}

		return fmt.Errorf("failed to close connection: %w", err)
	}

	select {
	case err := <-readErrCh:
		return err
	case <-time.After(closeTimeout):
		return nil
	}
}

func (that *Client) print(text string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := io.WriteString(that.out, text); err != nil {
		that.logger.Error("failed to print", "error", err)
	}
}
