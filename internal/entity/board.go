package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

const (
	PlayerMark   = "X"
	OpponentMark = "O"
	EmptyCell    = ""

	BoardSize  = 9
	CenterCell = 4
)

// WinCombos lists rows, then columns, then diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Intner is the random source used by the opponent, *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// Board is the 3x3 grid stored row by row.
type Board [BoardSize]string

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != EmptyCell {
			return false
		}
	}

	return true
}

// ApplyPlayerMove marks the cell for the human player.
func (that *Board) ApplyPlayerMove(cell int) error {
	if cell < 0 || cell >= len(that) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = PlayerMark

	return nil
}

// ApplyOpponentMove takes the center when it is free, otherwise a random empty cell.
// The caller must evaluate the outcome first: a full board panics.
func (that *Board) ApplyOpponentMove(rng Intner) int {
	if that.IsFull() {
		panic(apperror.ErrNoAvailableMoves)
	}

	if that[CenterCell] == EmptyCell {
		that[CenterCell] = OpponentMark
		return CenterCell
	}

	cell := rng.Intn(BoardSize)
	for that[cell] != EmptyCell {
		cell = rng.Intn(BoardSize)
	}

	that[cell] = OpponentMark

	return cell
}

func (that *Board) EvaluateOutcome() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a == EmptyCell || a != b || b != c {
			continue
		}

		if a == PlayerMark {
			return Outcome{Ended: true, Winner: WinnerPlayer}
		}

		return Outcome{Ended: true, Winner: WinnerComputer}
	}

	// nobody has three in a row, the game goes on until the board is full
	if that.IsFull() {
		return Outcome{Ended: true, Winner: WinnerDraw}
	}

	return Outcome{Ended: false, Winner: WinnerNone}
}

func (that *Board) Reset() {
	for i := range that {
		that[i] = EmptyCell
	}
}

// MarshalJSON encodes empty cells as null.
func (that Board) MarshalJSON() ([]byte, error) {
	cells := make([]*string, len(that))
	for i := range that {
		if that[i] != EmptyCell {
			mark := that[i]
			cells[i] = &mark
		}
	}

	return json.Marshal(cells)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var cells []*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(cells) != BoardSize {
		return fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, BoardSize, len(cells))
	}

	var board Board
	for i, cell := range cells {
		if cell == nil {
			continue
		}

		switch *cell {
		case PlayerMark, OpponentMark, EmptyCell:
			board[i] = *cell
		default:
			return fmt.Errorf("%w: unknown mark %q in cell %d", apperror.ErrInvalidBoard, *cell, i)
		}
	}

	*that = board

	return nil
}
