package battleship

import (
	"fmt"
	"strings"
)

const (
	ShipSizeBattleship = 4
	ShipSizeCruiser    = 3

	// FleetCells is the number of ship cells on a fully placed board. It is
	// also the number of hits needed to win.
	FleetCells = ShipSizeBattleship + ShipSizeCruiser + ShipSizeCruiser
)

type PlacementRule uint8

const (
	// PlacementOverlap only forbids ships sharing a cell.
	PlacementOverlap PlacementRule = iota

	// PlacementNoTouching also forbids a ship in the 8-neighbourhood of
	// another ship.
	PlacementNoTouching
)

func ParsePlacementRule(s string) (PlacementRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overlap":
		return PlacementOverlap, nil
	case "no-touching", "notouching":
		return PlacementNoTouching, nil
	default:
		return PlacementOverlap, fmt.Errorf("invalid placement rule: %s", s)
	}
}

func (r PlacementRule) String() string {
	if r == PlacementNoTouching {
		return "no-touching"
	}
	return "overlap"
}

type Ship struct {
	Size       int
	X          int
	Y          int
	Horizontal bool
	Placed     bool
}

func NewShip(size int) *Ship {
	return &Ship{Size: size}
}

// ShipCells returns the coordinates covered by a ship of the given size and
// orientation with its origin at (x, y). Cells may be out of bounds.
func ShipCells(size, x, y int, horizontal bool) []Coordinates {
	cells := make([]Coordinates, 0, size)
	for i := 0; i < size; i++ {
		if horizontal {
			cells = append(cells, NewCoordinates(x+i, y))
		} else {
			cells = append(cells, NewCoordinates(x, y+i))
		}
	}
	return cells
}

func CanPlace(board *Board, size, x, y int, horizontal bool, rule PlacementRule) bool {
	cells := ShipCells(size, x, y, horizontal)

	for _, c := range cells {
		if !InBounds(c.X, c.Y) || board[c.X][c.Y] != CellEmpty {
			return false
		}
	}

	if rule == PlacementNoTouching {
		for _, c := range cells {
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					nx, ny := c.X+dx, c.Y+dy
					if InBounds(nx, ny) && board[nx][ny] == CellShip {
						return false
					}
				}
			}
		}
	}
	return true
}

// Fleet is the fixed set of ships placed in order: the 4-cell ship first,
// then the two 3-cell ships.
type Fleet struct {
	ships      []*Ship
	current    int
	horizontal bool
}

func NewFleet() *Fleet {
	return &Fleet{
		ships: []*Ship{
			NewShip(ShipSizeBattleship),
			NewShip(ShipSizeCruiser),
			NewShip(ShipSizeCruiser),
		},
	}
}

// Current returns the next ship to place, nil once every ship is placed.
func (f *Fleet) Current() *Ship {
	if f.current >= len(f.ships) {
		return nil
	}
	return f.ships[f.current]
}

func (f *Fleet) Ships() []Ship {
	ships := make([]Ship, len(f.ships))
	for i, s := range f.ships {
		ships[i] = *s
	}
	return ships
}

func (f *Fleet) Horizontal() bool {
	return f.horizontal
}

// Rotate flips the orientation used for the next placement. It has no
// board effect.
func (f *Fleet) Rotate() {
	f.horizontal = !f.horizontal
}

func (f *Fleet) Place(board *Board, x, y int, rule PlacementRule) bool {
	ship := f.Current()
	if ship == nil {
		return false
	}

	if !CanPlace(board, ship.Size, x, y, f.horizontal, rule) {
		return false
	}

	for _, c := range ShipCells(ship.Size, x, y, f.horizontal) {
		board[c.X][c.Y] = CellShip
	}

	ship.X = x
	ship.Y = y
	ship.Horizontal = f.horizontal
	ship.Placed = true
	f.current++
	return true
}

func (f *Fleet) PlacedCount() int {
	var n int
	for _, s := range f.ships {
		if s.Placed {
			n++
		}
	}
	return n
}

func (f *Fleet) AllPlaced() bool {
	return f.PlacedCount() == len(f.ships)
}
