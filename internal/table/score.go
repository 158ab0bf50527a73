package table

import (
	"fmt"

	"emittr/connectfour/internal/game"
)

type Score struct {
	PlayerOne int `json:"playerOne"`
	PlayerTwo int `json:"playerTwo"`
}

func (s *Score) Record(winner game.Piece) {
	switch winner {
	case game.PlayerOne:
		s.PlayerOne++
	case game.PlayerTwo:
		s.PlayerTwo++
	}
}

func (s *Score) Reset() {
	*s = Score{}
}

func (s Score) String() string {
	return fmt.Sprintf("Player One: %d\nPlayer Two: %d", s.PlayerOne, s.PlayerTwo)
}

// WinMessage is the announcement shown when p completes four in a row.
func WinMessage(p game.Piece) string {
	return fmt.Sprintf("Player %d wins!", int(p))
}

const DrawMessage = "It's a draw!"
