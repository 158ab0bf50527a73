package game

import (
	"errors"
	"testing"
)

func boardWith(p Piece, cells ...Cell) Board {
	var b Board
	for _, c := range cells {
		b.place(c.Row, c.Col, p)
	}
	return b
}

func TestEmptyBoard(t *testing.T) {
	var b Board
	for col := 0; col < Columns; col++ {
		if !b.IsValidLocation(col) {
			t.Errorf("IsValidLocation(%d) = false on empty board", col)
		}
	}
	row, err := b.NextOpenRow(3)
	if err != nil || row != 0 {
		t.Fatalf("NextOpenRow(3) = %d, %v; want 0, nil", row, err)
	}
	if b.WinningMove(PlayerOne) || b.WinningMove(PlayerTwo) {
		t.Error("empty board reports a win")
	}
}

func TestIsValidLocationOutOfRange(t *testing.T) {
	var b Board
	for _, col := range []int{-1, Columns, 100} {
		if b.IsValidLocation(col) {
			t.Errorf("IsValidLocation(%d) = true", col)
		}
		if _, err := b.NextOpenRow(col); !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("NextOpenRow(%d) err = %v, want ErrInvalidColumn", col, err)
		}
	}
}

func TestNextOpenRowIsLowestEmpty(t *testing.T) {
	var b Board
	for want := 0; want < Rows; want++ {
		if !b.IsValidLocation(2) {
			t.Fatalf("column 2 full after %d pieces", want)
		}
		row, err := b.NextOpenRow(2)
		if err != nil {
			t.Fatalf("NextOpenRow: %v", err)
		}
		if row != want {
			t.Fatalf("NextOpenRow(2) = %d, want %d", row, want)
		}
		b.place(row, 2, PlayerOne)
		if h := b.Height(2); h != want+1 {
			t.Errorf("Height(2) = %d, want %d", h, want+1)
		}
	}
	if b.IsValidLocation(2) {
		t.Error("full column reported valid")
	}
	if _, err := b.NextOpenRow(2); !errors.Is(err, ErrColumnFull) {
		t.Errorf("NextOpenRow on full column err = %v, want ErrColumnFull", err)
	}
}

func TestWinningMove(t *testing.T) {
	tests := []struct {
		name  string
		piece Piece
		cells []Cell
		want  bool
	}{
		{"three horizontal", PlayerOne, []Cell{{0, 0}, {0, 1}, {0, 2}}, false},
		{"four horizontal", PlayerOne, []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, true},
		{"horizontal right edge", PlayerTwo, []Cell{{5, 3}, {5, 4}, {5, 5}, {5, 6}}, true},
		{"horizontal gap", PlayerOne, []Cell{{0, 0}, {0, 1}, {0, 3}, {0, 4}}, false},
		{"three vertical", PlayerTwo, []Cell{{0, 2}, {1, 2}, {2, 2}}, false},
		{"four vertical", PlayerTwo, []Cell{{0, 2}, {1, 2}, {2, 2}, {3, 2}}, true},
		{"vertical top", PlayerOne, []Cell{{2, 6}, {3, 6}, {4, 6}, {5, 6}}, true},
		{"rising diagonal", PlayerOne, []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, true},
		{"rising diagonal upper", PlayerOne, []Cell{{2, 3}, {3, 4}, {4, 5}, {5, 6}}, true},
		{"falling diagonal", PlayerTwo, []Cell{{3, 0}, {2, 1}, {1, 2}, {0, 3}}, true},
		{"falling diagonal right", PlayerTwo, []Cell{{5, 3}, {4, 4}, {3, 5}, {2, 6}}, true},
		{"three diagonal", PlayerOne, []Cell{{0, 0}, {1, 1}, {2, 2}}, false},
		{"wrapped row does not count", PlayerOne, []Cell{{0, 5}, {0, 6}, {1, 0}, {1, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardWith(tt.piece, tt.cells...)
			if got := b.WinningMove(tt.piece); got != tt.want {
				t.Errorf("WinningMove(%v) = %v, want %v", tt.piece, got, tt.want)
			}
			if b.WinningMove(tt.piece.Other()) {
				t.Errorf("opponent %v reported a win", tt.piece.Other())
			}
		})
	}
}

func TestWinningMoveIgnoresEmpty(t *testing.T) {
	var b Board
	if b.WinningMove(Empty) {
		t.Error("WinningMove(Empty) = true on an empty board")
	}
}

func TestWinningMoveMixedPieces(t *testing.T) {
	b := boardWith(PlayerOne, Cell{0, 0}, Cell{0, 1}, Cell{0, 2})
	b.place(0, 3, PlayerTwo)
	if b.WinningMove(PlayerOne) || b.WinningMove(PlayerTwo) {
		t.Error("mixed row reported as a win")
	}
}

func TestFindFourReportsLine(t *testing.T) {
	cells := []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	b := boardWith(PlayerOne, cells...)
	line, ok := b.FindFour(PlayerOne)
	if !ok {
		t.Fatal("FindFour found nothing")
	}
	for i, c := range cells {
		if line[i] != c {
			t.Errorf("line[%d] = %+v, want %+v", i, line[i], c)
		}
	}
}

func TestIsFullAndPieces(t *testing.T) {
	var b Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b.IsFull() {
				t.Fatalf("IsFull before (%d,%d) filled", r, c)
			}
			b.place(r, c, PlayerOne)
		}
	}
	if !b.IsFull() {
		t.Error("IsFull = false on full board")
	}
	if n := b.Pieces(PlayerOne); n != Rows*Columns {
		t.Errorf("Pieces = %d, want %d", n, Rows*Columns)
	}
}

func TestPieceOther(t *testing.T) {
	if PlayerOne.Other() != PlayerTwo || PlayerTwo.Other() != PlayerOne {
		t.Error("Other does not swap players")
	}
	if Empty.Other() != Empty {
		t.Error("Empty.Other() should be Empty")
	}
}
