package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	game "github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

const rowSeparator = "---+---+---"

// Render - draws a server reply as a 3x3 grid, free cells show their index.
func Render(response game.Response) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s: %s\n", response.Type, response.Message)

	for row := 0; row < 3; row++ {
		if row > 0 {
			builder.WriteString(rowSeparator + "\n")
		}

		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col

			mark := response.Board[index]
			if mark == entity.EmptyCell {
				mark = strconv.Itoa(index)
			}

			cells = append(cells, " "+mark+" ")
		}

		builder.WriteString(strings.Join(cells, "|") + "\n")
	}

	if response.Type == game.TypeGameOver {
		fmt.Fprintf(&builder, "winner: %s\n", response.Winner)
	}

	return builder.String()
}
