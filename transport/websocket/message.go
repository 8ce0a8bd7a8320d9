package websocket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// Inbound message types.
const (
	TypeChoice = "choice"
	TypeReset  = "reset"
)

// Outbound message types.
const (
	TypeStart        = "start"
	TypeFail         = "fail"
	TypeGameOver     = "gameOver"
	TypePlayerChoice = "playerChoice"
)

const (
	messageStart        = "game started"
	messageReset        = "the game was reset"
	messageFail         = "invalid input! choose again..."
	messageFinished     = "game is over! reset to play again..."
	messageGameOver     = "game is over!"
	messagePlayerChoice = "waiting for player choice"
)

// Request is what the client sends. Message holds the cell index for a choice.
type Request struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Response is what the server sends after every request.
type Response struct {
	Type    string        `json:"type"`
	Message string        `json:"message"`
	Winner  entity.Winner `json:"winner"`
	Board   entity.Board  `json:"board"`
}

// NewChoice - builds a choice request for the given cell.
func NewChoice(cell int) Request {
	return Request{Type: TypeChoice, Message: json.RawMessage(strconv.Itoa(cell))}
}

// NewReset - builds a reset request.
func NewReset() Request {
	return Request{Type: TypeReset}
}

// ParseCell - reads the cell index from a choice. Numbers and numeric strings are accepted.
func ParseCell(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("%w: missing cell", apperror.ErrInvalidChoice)
	}

	var cell int
	if err := json.Unmarshal(raw, &cell); err == nil {
		return cell, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("%w: %s", apperror.ErrInvalidChoice, raw)
	}

	cell, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidChoice, text)
	}

	return cell, nil
}
