package battleship

// GridSize is the length of each side of a board.
const GridSize = 10

const (
	ValidLowerBound = 0
	ValidUpperBound = GridSize - 1
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellShip

	// Terminal states. A cell in one of these never changes again.
	CellHit
	CellMiss
)

func (c Cell) IsResolved() bool {
	return c == CellHit || c == CellMiss
}

func (c Cell) String() string {
	switch c {
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return "empty"
	}
}

type ShotStatus uint8

const (
	ShotResolved ShotStatus = iota
	ShotAlreadyResolved
)

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// Shot is one resolved cell of an attack.
type Shot struct {
	Coordinates
	Hit bool
}

func NewShot(x, y int, hit bool) Shot {
	return Shot{Coordinates: NewCoordinates(x, y), Hit: hit}
}

// Board is indexed [x][y]. Callers validate coordinates with InBounds;
// an out of range index is a programming error and panics.
type Board [GridSize][GridSize]Cell

func InBounds(x, y int) bool {
	return x >= ValidLowerBound && x <= ValidUpperBound && y >= ValidLowerBound && y <= ValidUpperBound
}

func (b *Board) CellState(x, y int) Cell {
	return b[x][y]
}

// MarkShot writes a known outcome to the cell. Resolved cells are left as
// they are.
func (b *Board) MarkShot(x, y int, hit bool) ShotStatus {
	if b[x][y].IsResolved() {
		return ShotAlreadyResolved
	}

	if hit {
		b[x][y] = CellHit
	} else {
		b[x][y] = CellMiss
	}
	return ShotResolved
}

// Resolve fires at the cell using the ground truth held by the board:
// Ship becomes Hit and Empty becomes Miss. For a resolved cell the returned
// shot repeats the existing outcome.
func (b *Board) Resolve(x, y int) (Shot, ShotStatus) {
	cell := b[x][y]
	if cell.IsResolved() {
		return NewShot(x, y, cell == CellHit), ShotAlreadyResolved
	}

	hit := cell == CellShip
	b.MarkShot(x, y, hit)
	return NewShot(x, y, hit), ShotResolved
}

func (b *Board) ShipCellCount() int {
	return b.count(CellShip)
}

func (b *Board) HitCount() int {
	return b.count(CellHit)
}

func (b *Board) count(state Cell) int {
	var n int
	for x := range b {
		for _, c := range b[x] {
			if c == state {
				n++
			}
		}
	}
	return n
}
