package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

func (that *Server) sendStart(ctx context.Context, conn *connection) error {
	state := conn.session.Start(ctx)

	return that.sendMessage(conn, TypeStart, messageStart, state)
}

func (that *Server) handleReset(ctx context.Context, conn *connection, _ *Request) error {
	state := conn.session.Reset(ctx)

	return that.sendMessage(conn, TypeReset, messageReset, state)
}

func (that *Server) handleChoice(ctx context.Context, conn *connection, msg *Request) error {
	log := conn.logger.With("method", "handleChoice")

	cell, err := ParseCell(msg.Message)
	if err != nil {
		log.Debug("malformed choice", "error", err)
		return that.sendMessage(conn, TypeFail, messageFail, conn.session.Snapshot())
	}

	state, err := conn.session.MakeTurn(ctx, cell)
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		return that.sendMessage(conn, TypeFail, messageFinished, state)
	case err != nil:
		return that.sendMessage(conn, TypeFail, messageFail, state)
	case state.Outcome.Ended:
		return that.sendMessage(conn, TypeGameOver, messageGameOver, state)
	default:
		return that.sendMessage(conn, TypePlayerChoice, messagePlayerChoice, state)
	}
}

// sendMessage - only the connection's own goroutine writes, gorilla allows one writer at a time.
func (that *Server) sendMessage(conn *connection, msgType, text string, state *entity.Session) error {
	response := Response{
		Type:    msgType,
		Message: text,
		Board:   state.Board,
	}

	if msgType == TypeGameOver {
		response.Winner = state.Outcome.Winner
	}

	if err := conn.socket.WriteJSON(response); err != nil {
		return fmt.Errorf("failed to send %s response: %w", msgType, err)
	}

	return nil
}
