package battleship

import "fmt"

type SpecialKind uint8

const (
	SpecialNone SpecialKind = iota
	SpecialLineHorizontal
	SpecialLineVertical
	SpecialArea3x3
)

// Wire names of the special attacks.
const (
	SpecialNameLineHorizontal = "HorizontalLine"
	SpecialNameLineVertical   = "VerticalLine"
	SpecialNameArea3x3        = "Area3x3"
)

var SpecialKinds = []SpecialKind{SpecialLineHorizontal, SpecialLineVertical, SpecialArea3x3}

func (k SpecialKind) String() string {
	switch k {
	case SpecialLineHorizontal:
		return SpecialNameLineHorizontal
	case SpecialLineVertical:
		return SpecialNameLineVertical
	case SpecialArea3x3:
		return SpecialNameArea3x3
	default:
		return "None"
	}
}

func ParseSpecialKind(s string) (SpecialKind, error) {
	switch s {
	case SpecialNameLineHorizontal:
		return SpecialLineHorizontal, nil
	case SpecialNameLineVertical:
		return SpecialLineVertical, nil
	case SpecialNameArea3x3:
		return SpecialArea3x3, nil
	default:
		return SpecialNone, fmt.Errorf("invalid special attack type: %s", s)
	}
}

// SpecialInventory holds the three single-use special attacks of one side.
// A slot is spent on use whatever the outcome.
type SpecialInventory struct {
	spent [SpecialArea3x3 + 1]bool
}

func NewSpecialInventory() *SpecialInventory {
	return &SpecialInventory{}
}

func (inv *SpecialInventory) Available(kind SpecialKind) bool {
	if kind == SpecialNone || kind > SpecialArea3x3 {
		return false
	}
	return !inv.spent[kind]
}

func (inv *SpecialInventory) Consume(kind SpecialKind) bool {
	if !inv.Available(kind) {
		return false
	}
	inv.spent[kind] = true
	return true
}

// ResolveShot fires a normal shot. The result is empty when the cell was
// already resolved.
func ResolveShot(board *Board, x, y int) []Shot {
	shot, status := board.Resolve(x, y)
	if status == ShotAlreadyResolved {
		return nil
	}
	return []Shot{shot}
}

// ResolveSpecial fires a special attack from the origin (x, y). When the
// slot is spent the result is empty and nothing changes.
func ResolveSpecial(board *Board, inv *SpecialInventory, kind SpecialKind, x, y int) []Shot {
	if !inv.Consume(kind) {
		return nil
	}

	switch kind {
	case SpecialLineHorizontal, SpecialLineVertical:
		return resolveLine(board, kind == SpecialLineHorizontal, x, y)
	default:
		return resolveArea(board, x, y)
	}
}

// Sweeps outward from the origin and halts on the first ship cell.
func resolveLine(board *Board, horizontal bool, x, y int) []Shot {
	shots := make([]Shot, 0, GridSize)

	for _, c := range LineSweepOrder(horizontal, x, y) {
		shot, status := board.Resolve(c.X, c.Y)
		if status == ShotAlreadyResolved {
			continue
		}

		shots = append(shots, shot)
		if shot.Hit {
			break
		}
	}
	return shots
}

func resolveArea(board *Board, x, y int) []Shot {
	shots := make([]Shot, 0, 9)

	for _, c := range AreaCells(x, y) {
		shot, status := board.Resolve(c.X, c.Y)
		if status == ShotAlreadyResolved {
			continue
		}
		shots = append(shots, shot)
	}
	return shots
}

// LineSweepOrder lists every cell of the row (horizontal) or column through
// the origin: the origin, then alternately the lower and upper neighbour at
// growing distance.
func LineSweepOrder(horizontal bool, x, y int) []Coordinates {
	origin := y
	if horizontal {
		origin = x
	}

	at := func(i int) Coordinates {
		if horizontal {
			return NewCoordinates(i, y)
		}
		return NewCoordinates(x, i)
	}

	cells := make([]Coordinates, 0, GridSize)
	cells = append(cells, at(origin))
	for d := 1; len(cells) < GridSize; d++ {
		if lo := origin - d; lo >= ValidLowerBound {
			cells = append(cells, at(lo))
		}
		if hi := origin + d; hi <= ValidUpperBound {
			cells = append(cells, at(hi))
		}
	}
	return cells
}

// AreaCells lists the 3x3 block centred on (x, y), clipped to the board.
func AreaCells(x, y int) []Coordinates {
	cells := make([]Coordinates, 0, 9)
	for cx := max(ValidLowerBound, x-1); cx <= min(ValidUpperBound, x+1); cx++ {
		for cy := max(ValidLowerBound, y-1); cy <= min(ValidUpperBound, y+1); cy++ {
			cells = append(cells, NewCoordinates(cx, cy))
		}
	}
	return cells
}

// SpecialCoverage lists every cell a special attack may resolve.
func SpecialCoverage(kind SpecialKind, x, y int) []Coordinates {
	switch kind {
	case SpecialLineHorizontal:
		return LineSweepOrder(true, x, y)
	case SpecialLineVertical:
		return LineSweepOrder(false, x, y)
	case SpecialArea3x3:
		return AreaCells(x, y)
	default:
		return nil
	}
}

func CountHits(shots []Shot) int {
	var n int
	for _, s := range shots {
		if s.Hit {
			n++
		}
	}
	return n
}
