package battleship

// Player is the local side of a match. The own grid is the ground truth of
// the local fleet; the tracking grid only holds outcomes reported for shots
// this player fired.
type Player struct {
	IsReady     bool
	OwnGrid     Board
	TrackGrid   Board
	Fleet       *Fleet
	Inventory   *SpecialInventory
	MatchStatus int
}

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

func NewPlayer() *Player {
	return &Player{
		Fleet:       NewFleet(),
		Inventory:   NewSpecialInventory(),
		MatchStatus: PlayerMatchStatusUndefined,
	}
}

// IsLoser reports whether every own ship cell has been hit.
func (p *Player) IsLoser() bool {
	return p.Fleet.AllPlaced() && p.OwnGrid.ShipCellCount() == 0
}

// HasSunkFleet reports whether the tracking grid shows the whole opposing
// fleet hit.
func (p *Player) HasSunkFleet() bool {
	return p.TrackGrid.HitCount() >= FleetCells
}

func (p *Player) RemainingShips() int {
	return len(p.Fleet.ships) - p.Fleet.PlacedCount()
}
