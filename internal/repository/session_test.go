package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(id string) *entity.Session {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	return &entity.Session{
		ID:        id,
		Board:     entity.Board{entity.PlayerMark, "", "", "", entity.OpponentMark, "", "", "", ""},
		Outcome:   entity.Outcome{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// testSessionRepository runs the same checks against every implementation.
func testSessionRepository(ctx context.Context, t *testing.T, newRepo func() SessionRepository) {
	t.Run("CreateOrUpdate_And_GetByID", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session snapshot
		session := newSession("s1")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with its ID
		retrieved, err := repo.GetByID(ctx, session.ID)

		// Then: the snapshot should round trip
		require.NoError(t, err)
		assert.Equal(t, session.ID, retrieved.ID)
		assert.Equal(t, session.Board, retrieved.Board)
		assert.True(t, session.StartedAt.Equal(retrieved.StartedAt))
	})

	t.Run("CreateOrUpdate_Overwrites", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session that is later finished
		session := newSession("s2")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		session.Board = entity.Board{entity.PlayerMark, entity.PlayerMark, entity.PlayerMark, "", entity.OpponentMark, entity.OpponentMark, "", "", ""}
		session.Outcome = entity.Outcome{Ended: true, Winner: entity.WinnerPlayer}

		// When: the snapshot is saved again
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// Then: the latest state is returned
		retrieved, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.Outcome, retrieved.Outcome)
		assert.Equal(t, session.Board, retrieved.Board)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		repo := newRepo()

		// When: GetByID is called with an unknown ID
		retrieved, err := repo.GetByID(ctx, "missing")

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session
		session := newSession("s3")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: it is deleted
		require.NoError(t, repo.DeleteByID(ctx, session.ID))

		// Then: it can no longer be found and a second delete fails
		_, err := repo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		require.ErrorIs(t, repo.DeleteByID(ctx, session.ID), apperror.ErrSessionNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		repo := newRepo()

		before, err := repo.Count(ctx)
		require.NoError(t, err)

		// Given: three more live sessions
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.CreateOrUpdate(ctx, newSession(fmt.Sprintf("count-%d", i))))
		}

		// When: counting
		after, err := repo.Count(ctx)

		// Then: the three snapshots are counted
		require.NoError(t, err)
		assert.Equal(t, before+3, after)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	testSessionRepository(context.Background(), t, NewMemorySessionRepository)
}

func TestRedisSessionRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	ctx, st := suite.New(t)

	testSessionRepository(ctx, t, func() SessionRepository {
		require.NoError(t, st.Storage.FlushDB(ctx).Err())
		return NewSessionRepository(st.Storage, time.Minute)
	})

	t.Run("Snapshots expire", func(t *testing.T) {
		repo := NewSessionRepository(st.Storage, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, newSession("ttl")))

		ttl, err := st.Storage.TTL(ctx, sessionKeyPrefix+"ttl").Result()

		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}
