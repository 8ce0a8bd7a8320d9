package client

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	game "github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

func TestRender(t *testing.T) {
	t.Run("Free cells show their index", func(t *testing.T) {
		// Given: a reply in the middle of a game
		response := game.Response{
			Type:    game.TypePlayerChoice,
			Message: "waiting for player choice",
			Board:   entity.Board{"X", "", "", "", "O", "", "", "", ""},
		}

		// When: rendering it
		text := Render(response)

		// Then: marks and indices are laid out as a grid, without a winner line
		assert.Equal(t, "playerChoice: waiting for player choice\n"+
			" X | 1 | 2 \n"+
			"---+---+---\n"+
			" 3 | O | 5 \n"+
			"---+---+---\n"+
			" 6 | 7 | 8 \n", text)
	})

	t.Run("Game over prints the winner", func(t *testing.T) {
		response := game.Response{
			Type:    game.TypeGameOver,
			Message: "game is over!",
			Winner:  entity.WinnerDraw,
			Board:   entity.Board{"X", "O", "X", "X", "O", "O", "O", "X", "X"},
		}

		text := Render(response)

		assert.True(t, strings.HasSuffix(text, "winner: DRAW\n"))
		assert.Contains(t, text, " X | O | X \n")
	})
}

func TestParseCommand(t *testing.T) {
	for line, expected := range map[string]command{
		"0":     {kind: commandChoice, cell: 0},
		" 8 ":   {kind: commandChoice, cell: 8},
		"r":     {kind: commandReset},
		"RESET": {kind: commandReset},
		"q":     {kind: commandQuit},
		"exit":  {kind: commandQuit},
	} {
		cmd, err := parseCommand(line)

		require.NoError(t, err, line)
		assert.Equal(t, expected, cmd, line)
	}

	for _, line := range []string{"", "9", "-1", "x", "4 5"} {
		_, err := parseCommand(line)

		require.ErrorIs(t, err, ErrUnknownCommand, line)
	}
}

func TestClient_Play(t *testing.T) {
	// Given: a running game server
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemorySessionRepository(), usecase.Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv := httptest.NewServer(game.New(logger, manager).Handler(ctx, "/ws"))
	defer srv.Close()

	var out bytes.Buffer
	client, err := Dial(ctx, logger, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", &out)
	require.NoError(t, err)
	defer client.Close()

	// When: the user picks a corner, types garbage and quits
	err = client.Play(ctx, strings.NewReader("0\nhello\nq\n"))

	// Then: the start board and the answer to the move were printed
	require.NoError(t, err)
	assert.Contains(t, out.String(), "start: game started")
	assert.Contains(t, out.String(), "playerChoice: waiting for player choice\n X | 1 | 2 \n---+---+---\n 3 | O | 5 ")
	assert.Contains(t, out.String(), `unknown command: "hello"`)
}
