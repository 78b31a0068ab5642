package board

import (
	"fmt"

	"github.com/hiveboardgame/hive/hive/position"
)

// Destination notation, byte-by-byte (no regexp, per the notation being
// small and strictly regular):
//
//	"."                 initial spawn cell (first piece of the game only)
//	"<piece>"           on top of <piece> (a climb/stack placement)
//	"\<piece>" "-<piece>" "/<piece>"   leading marker: NW, W, SW of <piece>
//	"<piece>/" "<piece>-" "<piece>\"   trailing marker: NE, E, SE of <piece>

func isMarkerByte(c byte) bool {
	return c == '-' || c == '/' || c == '\\'
}

func leadingMarkerDirection(c byte) (position.Direction, bool) {
	switch c {
	case '\\':
		return position.NW, true
	case '-':
		return position.W, true
	case '/':
		return position.SW, true
	default:
		return 0, false
	}
}

func trailingMarkerDirection(c byte) (position.Direction, bool) {
	switch c {
	case '/':
		return position.NE, true
	case '-':
		return position.E, true
	case '\\':
		return position.SE, true
	default:
		return 0, false
	}
}

// ParseDestination resolves a destination token against the board's current
// piece positions (the token may reference a piece not yet placed only when
// tok is "." or empty, i.e. the very first placement).
func (b *Board) ParseDestination(tok string) (position.Position, error) {
	if tok == "" || tok == "." {
		return position.InitialSpawn(), nil
	}

	i := 0
	var hasLeading bool
	var leadingDir position.Direction
	if isMarkerByte(tok[0]) {
		d, ok := leadingMarkerDirection(tok[0])
		if !ok {
			return position.Position{}, fmt.Errorf("board: %q has an invalid leading direction marker", tok)
		}
		leadingDir, hasLeading = d, true
		i++
	}

	start := i
	for i < len(tok) && !isMarkerByte(tok[i]) {
		i++
	}
	pieceTok := tok[start:i]
	if pieceTok == "" {
		return position.Position{}, fmt.Errorf("board: %q has no piece token", tok)
	}

	var hasTrailing bool
	var trailingDir position.Direction
	if i < len(tok) {
		d, ok := trailingMarkerDirection(tok[i])
		if !ok {
			return position.Position{}, fmt.Errorf("board: %q has an invalid trailing direction marker", tok)
		}
		trailingDir, hasTrailing = d, true
		i++
	}
	if i != len(tok) {
		return position.Position{}, fmt.Errorf("board: %q has trailing garbage after marker", tok)
	}
	if hasLeading && hasTrailing {
		return position.Position{}, fmt.Errorf("board: %q has both a leading and trailing marker", tok)
	}

	refPiece, err := ParsePiece(pieceTok)
	if err != nil {
		return position.Position{}, err
	}
	refPos, ok := b.PositionOf(refPiece)
	if !ok {
		return position.Position{}, fmt.Errorf("board: destination references unplaced piece %q", pieceTok)
	}

	switch {
	case hasLeading:
		return refPos.To(leadingDir), nil
	case hasTrailing:
		return refPos.To(trailingDir), nil
	default:
		return refPos, nil
	}
}

// FormatDestination renders the token placing the moving piece in direction
// dir relative to refPiece, i.e. the inverse of ParseDestination.
func FormatDestination(refPiece Piece, dir position.Direction) string {
	switch dir {
	case position.NW:
		return "\\" + refPiece.Notation()
	case position.W:
		return "-" + refPiece.Notation()
	case position.SW:
		return "/" + refPiece.Notation()
	case position.NE:
		return refPiece.Notation() + "/"
	case position.E:
		return refPiece.Notation() + "-"
	case position.SE:
		return refPiece.Notation() + "\\"
	default:
		return refPiece.Notation()
	}
}

// FormatClimb renders the bare on-top-of-piece token (no direction marker).
func FormatClimb(refPiece Piece) string {
	return refPiece.Notation()
}
