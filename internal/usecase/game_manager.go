package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Options struct {
	// AllowMovesAfterFinish keeps accepting choices on a won board that still has free cells.
	AllowMovesAfterFinish bool

	// NewRand builds the opponent's random source for each session.
	NewRand func() entity.Intner
}

// GameManager creates one GameSession per connection.
type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	options     Options
	now         func() time.Time

	seedMu sync.Mutex
	seeds  *rand.Rand
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, options Options) *GameManager {
	manager := &GameManager{
		logger:      logger.With("component", "game"),
		sessionRepo: sessionRepo,
		options:     options,
		now:         time.Now,
		seeds:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint: gosec // it's ok
	}

	if manager.options.NewRand == nil {
		manager.options.NewRand = manager.newRand
	}

	return manager
}

func (that *GameManager) NewSession() *GameSession {
	id := uuid.NewString()

	return &GameSession{
		logger:                that.logger.With("sessionID", id),
		sessionRepo:           that.sessionRepo,
		rng:                   that.options.NewRand(),
		allowMovesAfterFinish: that.options.AllowMovesAfterFinish,
		now:                   that.now,
		state:                 entity.Session{ID: id},
	}
}

// ActiveSessions - number of sessions with an open connection.
func (that *GameManager) ActiveSessions(ctx context.Context) (int, error) {
	count, err := that.sessionRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// newRand - every session draws its own seed from the manager's generator.
func (that *GameManager) newRand() entity.Intner {
	that.seedMu.Lock()
	seed := that.seeds.Int63()
	that.seedMu.Unlock()

	return rand.New(rand.NewSource(seed)) //nolint: gosec // it's ok
}
