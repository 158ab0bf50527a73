package desktop

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"emittr/connectfour/internal/config"
	"emittr/connectfour/internal/game"
)

type palette struct {
	board     color.RGBA
	empty     color.RGBA
	playerOne color.RGBA
	playerTwo color.RGBA
}

func (p palette) piece(pc game.Piece) color.RGBA {
	switch pc {
	case game.PlayerOne:
		return p.playerOne
	case game.PlayerTwo:
		return p.playerTwo
	}
	return p.empty
}

func newPalette(t config.Theme) (palette, error) {
	var p palette
	fields := []struct {
		dst *color.RGBA
		hex string
	}{
		{&p.board, t.BoardColor},
		{&p.empty, t.EmptyColor},
		{&p.playerOne, t.PlayerOne},
		{&p.playerTwo, t.PlayerTwo},
	}
	for _, f := range fields {
		c, err := parseHex(f.hex)
		if err != nil {
			return palette{}, err
		}
		*f.dst = c
	}
	return p, nil
}

// parseHex accepts #rgb and #rrggbb.
func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
