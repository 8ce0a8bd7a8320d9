package entity

type Winner string

const (
	WinnerNone     Winner = ""
	WinnerPlayer   Winner = "PLAYER"
	WinnerComputer Winner = "COMPUTER"
	WinnerDraw     Winner = "DRAW"
)

// Outcome tells whether the game is over and who won. Ended=false always goes with WinnerNone.
type Outcome struct {
	Ended  bool   `json:"ended"`
	Winner Winner `json:"winner"`
}
