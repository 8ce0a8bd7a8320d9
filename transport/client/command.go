package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var ErrUnknownCommand = errors.New("unknown command")

type commandKind int

const (
	commandChoice commandKind = iota
	commandReset
	commandQuit
)

type command struct {
	kind commandKind
	cell int
}

// parseCommand - digit 0-8 picks a cell, r resets, q quits.
func parseCommand(line string) (command, error) {
	line = strings.ToLower(strings.TrimSpace(line))

	switch line {
	case "r", "reset":
		return command{kind: commandReset}, nil
	case "q", "quit", "exit":
		return command{kind: commandQuit}, nil
	}

	cell, err := strconv.Atoi(line)
	if err != nil || cell < 0 || cell >= entity.BoardSize {
		return command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}

	return command{kind: commandChoice, cell: cell}, nil
}
