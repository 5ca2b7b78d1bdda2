package battleship

import (
	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

type Phase uint8

const (
	PhasePlacement Phase = iota
	PhaseMyTurn
	PhaseOpponentTurn
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMyTurn:
		return "my_turn"
	case PhaseOpponentTurn:
		return "opponent_turn"
	case PhaseOver:
		return "over"
	default:
		return "placement"
	}
}

type EventKind uint8

const (
	EventBoardChanged EventKind = iota
	EventPhaseChanged
	EventSpecialInventoryChanged
	EventGameOver
)

// Event is a notification produced by a state change. Phase is set for
// EventPhaseChanged and Won for EventGameOver.
type Event struct {
	Kind  EventKind
	Phase Phase
	Won   bool
}

type attackKind uint8

const (
	attackNone attackKind = iota
	attackShot
	attackSpecial
)

// The outgoing attack whose result has not arrived yet.
type pendingAttack struct {
	kind    attackKind
	special SpecialKind
	origin  Coordinates
}

// Game is the local view of one match and the turn state machine of this
// peer. It is not safe for concurrent use; the owner serializes calls.
type Game struct {
	uuid       string
	player     *Player
	rule       PlacementRule
	phase      Phase
	firstMover bool

	opponentReady     bool
	opponentInventory *SpecialInventory

	selected SpecialKind
	pending  pendingAttack

	// Tracking cells covered by a special attack that hit somewhere we
	// cannot locate. They stay unmarked and are excluded from inference.
	uncertain [GridSize][GridSize]bool

	events []Event
}

// NewGame creates a match in the placement phase. The first mover takes
// the first turn once both sides are ready.
func NewGame(firstMover bool, rule PlacementRule) *Game {
	return &Game{
		uuid:              uuid.NewString()[:6],
		player:            NewPlayer(),
		rule:              rule,
		phase:             PhasePlacement,
		firstMover:        firstMover,
		opponentInventory: NewSpecialInventory(),
		selected:          SpecialNone,
	}
}

func (g *Game) Uuid() string { return g.uuid }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Player() *Player { return g.player }
func (g *Game) Rule() PlacementRule { return g.rule }
func (g *Game) FirstMover() bool { return g.firstMover }
func (g *Game) OpponentReady() bool { return g.opponentReady }
func (g *Game) Selected() SpecialKind { return g.selected }
func (g *Game) IsOver() bool { return g.phase == PhaseOver }
func (g *Game) AwaitingResult() bool { return g.pending.kind != attackNone }
func (g *Game) Won() bool { return g.player.MatchStatus == PlayerMatchStatusWon }
func (g *Game) Uncertain(x, y int) bool { return g.uncertain[x][y] }

// DrainEvents returns the notifications emitted since the last call.
func (g *Game) DrainEvents() []Event {
	events := g.events
	g.events = nil
	return events
}

func (g *Game) emit(kind EventKind) {
	g.events = append(g.events, Event{Kind: kind})
}

func (g *Game) setPhase(phase Phase) {
	if g.phase == phase || g.phase == PhaseOver {
		return
	}
	g.phase = phase
	g.events = append(g.events, Event{Kind: EventPhaseChanged, Phase: phase})
}

// keepTurnIf applies hit-continues/miss-passes for the side that fired.
func (g *Game) keepTurnIf(firedBySelf, hit bool) {
	if firedBySelf == hit {
		g.setPhase(PhaseMyTurn)
	} else {
		g.setPhase(PhaseOpponentTurn)
	}
}

func (g *Game) finish(won bool) {
	if g.phase == PhaseOver {
		return
	}
	g.setPhase(PhaseOver)
	g.selected = SpecialNone
	g.pending = pendingAttack{}
	if won {
		g.player.MatchStatus = PlayerMatchStatusWon
	} else {
		g.player.MatchStatus = PlayerMatchStatusLost
	}
	g.events = append(g.events, Event{Kind: EventGameOver, Won: won})
}

func (g *Game) start() {
	if g.firstMover {
		g.setPhase(PhaseMyTurn)
	} else {
		g.setPhase(PhaseOpponentTurn)
	}
}

/*
	Placement
*/

func (g *Game) PlaceShip(x, y int) bool {
	if g.phase != PhasePlacement || g.player.IsReady {
		return false
	}
	if !g.player.Fleet.Place(&g.player.OwnGrid, x, y, g.rule) {
		return false
	}
	g.emit(EventBoardChanged)
	return true
}

func (g *Game) RotateShip() bool {
	if g.phase != PhasePlacement || g.player.IsReady {
		return false
	}
	g.player.Fleet.Rotate()
	return true
}

// SetFirstMover decides who moves first. It only applies before the local
// side is ready.
func (g *Game) SetFirstMover(first bool) bool {
	if g.phase != PhasePlacement || g.player.IsReady {
		return false
	}
	g.firstMover = first
	return true
}

func (g *Game) ValidateReady() error {
	if g.phase != PhasePlacement {
		return cerr.ErrWrongPhase("ready", g.phase.String())
	}
	if g.player.IsReady {
		return cerr.ErrAlreadyReady()
	}
	if !g.player.Fleet.AllPlaced() {
		return cerr.ErrFleetNotPlaced(g.player.RemainingShips())
	}
	return nil
}

// SetReady records local readiness. The caller announces READY to the
// opponent when it returns nil.
func (g *Game) SetReady() error {
	if err := g.ValidateReady(); err != nil {
		return err
	}

	g.player.IsReady = true
	if g.opponentReady {
		g.start()
	}
	return nil
}

func (g *Game) MarkOpponentReady() {
	if g.phase != PhasePlacement {
		return
	}
	g.opponentReady = true
	if g.player.IsReady {
		g.start()
	}
}

/*
	Local attacks. Validate* leaves the state untouched so the caller can
	send first and Commit* only once the message is on the wire.
*/

func (g *Game) ValidateShot(x, y int) error {
	if g.phase != PhaseMyTurn {
		return cerr.ErrWrongPhase("shot", g.phase.String())
	}
	if g.AwaitingResult() {
		return cerr.ErrAttackPending()
	}
	if g.selected != SpecialNone {
		return cerr.ErrSpecialSelected(g.selected.String())
	}
	if !InBounds(x, y) {
		return cerr.ErrXorYOutOfGridBound(x, y)
	}
	if g.player.TrackGrid.CellState(x, y).IsResolved() {
		return cerr.ErrAttackPositionAlreadyFilled(x, y)
	}
	return nil
}

func (g *Game) CommitShot(x, y int) {
	g.pending = pendingAttack{kind: attackShot, origin: NewCoordinates(x, y)}
}

func (g *Game) SelectSpecialAttack(kind SpecialKind) bool {
	if g.phase != PhaseMyTurn || g.AwaitingResult() {
		return false
	}
	if kind != SpecialNone && !g.player.Inventory.Available(kind) {
		return false
	}
	g.selected = kind
	g.emit(EventSpecialInventoryChanged)
	return true
}

// ValidateSpecial returns the selected special attack if it can be fired
// at (x, y).
func (g *Game) ValidateSpecial(x, y int) (SpecialKind, error) {
	if g.phase != PhaseMyTurn {
		return SpecialNone, cerr.ErrWrongPhase("special attack", g.phase.String())
	}
	if g.AwaitingResult() {
		return SpecialNone, cerr.ErrAttackPending()
	}
	if g.selected == SpecialNone {
		return SpecialNone, cerr.ErrNoSpecialSelected()
	}
	if !g.player.Inventory.Available(g.selected) {
		return SpecialNone, cerr.ErrSpecialSpent(g.selected.String())
	}
	if !InBounds(x, y) {
		return SpecialNone, cerr.ErrXorYOutOfGridBound(x, y)
	}
	return g.selected, nil
}

// CommitSpecial spends the slot whatever the outcome will be.
func (g *Game) CommitSpecial(kind SpecialKind, x, y int) {
	g.player.Inventory.Consume(kind)
	g.selected = SpecialNone
	g.pending = pendingAttack{kind: attackSpecial, special: kind, origin: NewCoordinates(x, y)}
	g.emit(EventSpecialInventoryChanged)
}

/*
	Inbound. Every method is a no-op once the match is over; attack
	traffic before both sides are ready is dropped as well.
*/

func (g *Game) acceptsCombat() bool {
	return g.phase == PhaseMyTurn || g.phase == PhaseOpponentTurn
}

// ReceiveShot resolves an opponent shot on the own grid. ok is false when
// the shot was dropped; lost is true when it sank the last ship cell and
// the caller must announce defeat.
func (g *Game) ReceiveShot(x, y int) (shot Shot, lost bool, ok bool) {
	if !g.acceptsCombat() || !InBounds(x, y) {
		return Shot{}, false, false
	}

	// A resolved cell is skipped and answered as a miss.
	shot = NewShot(x, y, false)
	if shots := ResolveShot(&g.player.OwnGrid, x, y); len(shots) > 0 {
		shot = shots[0]
		g.emit(EventBoardChanged)
	}

	if g.player.IsLoser() {
		g.finish(false)
		return shot, true, true
	}
	g.keepTurnIf(false, shot.Hit)
	return shot, false, true
}

// ApplyShotResult records the reported outcome of our shot. Reaching the
// full fleet of hits ends the match as a win without notifying anyone.
func (g *Game) ApplyShotResult(x, y int, hit bool) bool {
	if !g.acceptsCombat() || !InBounds(x, y) {
		return false
	}

	if g.pending.kind == attackShot && g.pending.origin == NewCoordinates(x, y) {
		g.pending = pendingAttack{}
	}

	if g.player.TrackGrid.MarkShot(x, y, hit) == ShotResolved {
		g.uncertain[x][y] = false
		g.emit(EventBoardChanged)
	}

	if g.player.HasSunkFleet() {
		g.finish(true)
		return true
	}
	g.keepTurnIf(true, hit)
	return true
}

// ReceiveSpecial resolves an opponent special attack on the own grid. A
// spent kind resolves nothing and counts as a miss.
func (g *Game) ReceiveSpecial(kind SpecialKind, x, y int) (shots []Shot, hit bool, lost bool, ok bool) {
	if !g.acceptsCombat() || !InBounds(x, y) || kind == SpecialNone {
		return nil, false, false, false
	}

	shots = ResolveSpecial(&g.player.OwnGrid, g.opponentInventory, kind, x, y)
	if len(shots) > 0 {
		g.emit(EventBoardChanged)
	}

	hit = CountHits(shots) > 0
	if g.player.IsLoser() {
		g.finish(false)
		return shots, hit, true, true
	}
	g.keepTurnIf(false, hit)
	return shots, hit, false, true
}

// ApplySpecialResult records the outcome of our special attack. The
// message only says whether something was hit, so a miss marks every
// covered cell that must have been empty and a hit leaves the covered
// cells uncertain.
func (g *Game) ApplySpecialResult(hit bool) bool {
	if !g.acceptsCombat() {
		return false
	}

	if g.pending.kind == attackSpecial {
		p := g.pending
		g.pending = pendingAttack{}

		changed := false
		for _, c := range SpecialCoverage(p.special, p.origin.X, p.origin.Y) {
			if g.player.TrackGrid.CellState(c.X, c.Y).IsResolved() || g.uncertain[c.X][c.Y] {
				continue
			}
			if hit {
				g.uncertain[c.X][c.Y] = true
				continue
			}
			g.player.TrackGrid.MarkShot(c.X, c.Y, false)
			changed = true
		}
		if changed {
			g.emit(EventBoardChanged)
		}
	}

	if g.player.HasSunkFleet() {
		g.finish(true)
		return true
	}
	g.keepTurnIf(true, hit)
	return true
}

// OpponentDefeated handles the loser's announcement.
func (g *Game) OpponentDefeated() bool {
	if g.phase == PhaseOver {
		return false
	}
	g.finish(true)
	return true
}

// Snapshot is a copy of the match state for renderers.
type Snapshot struct {
	Uuid          string
	Phase         Phase
	OwnGrid       Board
	TrackGrid     Board
	Ships         []Ship
	Horizontal    bool
	Ready         bool
	OpponentReady bool
	Selected      SpecialKind
	Available     map[SpecialKind]bool
	MatchStatus   int
}

func (g *Game) Snapshot() Snapshot {
	available := make(map[SpecialKind]bool, len(SpecialKinds))
	for _, k := range SpecialKinds {
		available[k] = g.player.Inventory.Available(k)
	}

	return Snapshot{
		Uuid:          g.uuid,
		Phase:         g.phase,
		OwnGrid:       g.player.OwnGrid,
		TrackGrid:     g.player.TrackGrid,
		Ships:         g.player.Fleet.Ships(),
		Horizontal:    g.player.Fleet.Horizontal(),
		Ready:         g.player.IsReady,
		OpponentReady: g.opponentReady,
		Selected:      g.selected,
		Available:     available,
		MatchStatus:   g.player.MatchStatus,
	}
}
