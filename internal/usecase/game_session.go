package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// GameSession binds one board to one connection. It is not safe for concurrent use:
// the connection handles its messages one at a time.
type GameSession struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	rng         entity.Intner
	now         func() time.Time

	allowMovesAfterFinish bool

	state entity.Session
}

func (that *GameSession) ID() string {
	return that.state.ID
}

// Snapshot returns a copy of the current state.
func (that *GameSession) Snapshot() *entity.Session {
	snapshot := that.state
	return &snapshot
}

// Start - clears the board and registers the session.
func (that *GameSession) Start(ctx context.Context) *entity.Session {
	now := that.now()

	that.state.Board.Reset()
	that.state.Outcome = entity.Outcome{}
	that.state.StartedAt = now

	that.save(ctx)

	that.logger.Info("game started")

	return that.Snapshot()
}

func (that *GameSession) Reset(ctx context.Context) *entity.Session {
	that.state.Board.Reset()
	that.state.Outcome = entity.Outcome{}

	that.save(ctx)

	that.logger.Info("game reset")

	return that.Snapshot()
}

// MakeTurn - applies the player's move and, unless that ended the game, the opponent's answer.
// A rejected move leaves the board untouched and returns the current state with the error.
func (that *GameSession) MakeTurn(ctx context.Context, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeTurn", "cell", cell)

	if that.state.Outcome.Ended && !that.allowMovesAfterFinish {
		return that.Snapshot(), apperror.ErrGameFinished
	}

	if err := that.state.Board.ApplyPlayerMove(cell); err != nil {
		log.Debug("player move rejected", "error", err)
		return that.Snapshot(), fmt.Errorf("failed to make turn: %w", err)
	}

	that.state.Outcome = that.state.Board.EvaluateOutcome()
	if !that.state.Outcome.Ended {
		opponentCell := that.state.Board.ApplyOpponentMove(that.rng)
		log.Debug("opponent moved", "opponentCell", opponentCell)

		that.state.Outcome = that.state.Board.EvaluateOutcome()
	}

	that.save(ctx)

	if that.state.Outcome.Ended {
		log.Info("game over", "winner", that.state.Outcome.Winner)
	}

	return that.Snapshot(), nil
}

// Close - tears the session down when its connection goes away.
func (that *GameSession) Close(ctx context.Context) {
	log := that.logger.With("method", "Close")

	that.state.Board.Reset()
	that.state.Outcome = entity.Outcome{}

	if err := that.sessionRepo.DeleteByID(ctx, that.state.ID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Error("failed to delete session", "error", err)
	}

	log.Info("session closed")
}

// save - the snapshot is informational, a failing registry never stops the game.
func (that *GameSession) save(ctx context.Context) {
	that.state.UpdatedAt = that.now()

	if err := that.sessionRepo.CreateOrUpdate(ctx, that.Snapshot()); err != nil {
		that.logger.Error("failed to save session", "error", err)
	}
}
