package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

// newStartedPair returns host and joiner games with fleets at columns 0, 2
// and 4 from row 0, both ready and the host to move.
func newStartedPair(t *testing.T) (*Game, *Game) {
	t.Helper()

	host := NewGame(true, PlacementOverlap)
	joiner := NewGame(false, PlacementOverlap)

	for _, g := range []*Game{host, joiner} {
		for _, x := range []int{0, 2, 4} {
			if !g.PlaceShip(x, 0) {
				t.Fatalf("failed to place ship at column %d", x)
			}
		}
	}

	if err := host.SetReady(); err != nil {
		t.Fatalf("host ready: %v", err)
	}
	joiner.MarkOpponentReady()
	if err := joiner.SetReady(); err != nil {
		t.Fatalf("joiner ready: %v", err)
	}
	host.MarkOpponentReady()

	host.DrainEvents()
	joiner.DrainEvents()
	return host, joiner
}

// exchangeShot plays one normal shot from attacker to defender the way two
// connected peers would.
func exchangeShot(t *testing.T, attacker, defender *Game, x, y int) (hit bool, defenderLost bool) {
	t.Helper()

	if err := attacker.ValidateShot(x, y); err != nil {
		t.Fatalf("validate shot at (%d,%d): %v", x, y, err)
	}
	attacker.CommitShot(x, y)

	shot, lost, ok := defender.ReceiveShot(x, y)
	if !ok {
		t.Fatalf("shot at (%d,%d) dropped", x, y)
	}
	attacker.ApplyShotResult(x, y, shot.Hit)
	if lost {
		attacker.OpponentDefeated()
	}
	return shot.Hit, lost
}

func TestPhaseStartsAfterBothReady(t *testing.T) {
	host := NewGame(true, PlacementOverlap)
	for _, x := range []int{0, 2, 4} {
		host.PlaceShip(x, 0)
	}

	host.MarkOpponentReady()
	if host.Phase() != PhasePlacement {
		t.Fatalf("expected placement\t got: %s", host.Phase())
	}

	if err := host.SetReady(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.Phase() != PhaseMyTurn {
		t.Fatalf("expected my_turn\t got: %s", host.Phase())
	}

	events := host.DrainEvents()
	last := events[len(events)-1]
	if last.Kind != EventPhaseChanged || last.Phase != PhaseMyTurn {
		t.Fatalf("expected phase change event\t got: %+v", last)
	}
}

func TestSetReadyRejections(t *testing.T) {
	g := NewGame(false, PlacementOverlap)
	g.PlaceShip(0, 0)

	err := g.SetReady()
	if !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("expected rejection for incomplete fleet\t got: %v", err)
	}

	g.PlaceShip(2, 0)
	g.PlaceShip(4, 0)
	if err := g.SetReady(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.SetReady(); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("expected rejection for second ready\t got: %v", err)
	}

	if g.PlaceShip(6, 0) || g.RotateShip() {
		t.Fatal("placement must be locked once ready")
	}
}

func TestHitKeepsTurnMissPasses(t *testing.T) {
	host, joiner := newStartedPair(t)

	hit, _ := exchangeShot(t, host, joiner, 0, 0)
	if !hit {
		t.Fatal("expected a hit")
	}
	if host.Phase() != PhaseMyTurn || joiner.Phase() != PhaseOpponentTurn {
		t.Fatalf("hit must keep the turn\t got host %s joiner %s", host.Phase(), joiner.Phase())
	}

	hit, _ = exchangeShot(t, host, joiner, 9, 9)
	if hit {
		t.Fatal("expected a miss")
	}
	if host.Phase() != PhaseOpponentTurn || joiner.Phase() != PhaseMyTurn {
		t.Fatalf("miss must pass the turn\t got host %s joiner %s", host.Phase(), joiner.Phase())
	}

	if host.Player().TrackGrid.CellState(0, 0) != CellHit || host.Player().TrackGrid.CellState(9, 9) != CellMiss {
		t.Fatal("tracking grid not updated")
	}
	if joiner.Player().OwnGrid.CellState(0, 0) != CellHit {
		t.Fatal("defender grid not updated")
	}
}

func TestExactlyOneSideHasTurn(t *testing.T) {
	host, joiner := newStartedPair(t)

	shots := []Coordinates{{0, 0}, {9, 9}, {8, 8}, {0, 1}, {7, 7}}
	attacker, defender := host, joiner
	for _, c := range shots {
		if attacker.Phase() != PhaseMyTurn {
			attacker, defender = defender, attacker
		}
		exchangeShot(t, attacker, defender, c.X, c.Y)

		mine := 0
		for _, g := range []*Game{host, joiner} {
			if g.Phase() == PhaseMyTurn {
				mine++
			}
		}
		if mine != 1 {
			t.Fatalf("expected exactly one side on turn\t got: %d", mine)
		}
	}
}

func TestValidateShotRejections(t *testing.T) {
	host, joiner := newStartedPair(t)

	tests := []struct {
		name string
		g    *Game
		x, y int
	}{
		{name: "not my turn", g: joiner, x: 1, y: 1},
		{name: "out of bounds", g: host, x: 10, y: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.g.ValidateShot(test.x, test.y); !errors.Is(err, cerr.ErrActionRejected) {
				t.Fatalf("expected rejection\t got: %v", err)
			}
		})
	}

	exchangeShot(t, host, joiner, 0, 0)
	if err := host.ValidateShot(0, 0); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("expected rejection for resolved tracking cell\t got: %v", err)
	}

	host.CommitShot(5, 5)
	if err := host.ValidateShot(6, 6); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("expected rejection while awaiting result\t got: %v", err)
	}
}

func TestRedundantShotPassesTurn(t *testing.T) {
	host, joiner := newStartedPair(t)

	// The area hits (0,1) on the joiner's board but leaves it uncertain on
	// the host's tracking grid, so the host may fire there again.
	host.SelectSpecialAttack(SpecialArea3x3)
	kind, err := host.ValidateSpecial(1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	host.CommitSpecial(kind, 1, 1)
	_, hit, _, _ := joiner.ReceiveSpecial(kind, 1, 1)
	host.ApplySpecialResult(hit)
	if !host.Uncertain(0, 1) || host.Phase() != PhaseMyTurn {
		t.Fatalf("expected (0,1) uncertain and host on turn\t got: %t %s", host.Uncertain(0, 1), host.Phase())
	}

	if err := host.ValidateShot(0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	host.CommitShot(0, 1)

	before := joiner.Player().OwnGrid
	shot, lost, ok := joiner.ReceiveShot(0, 1)
	if !ok || lost || shot.Hit {
		t.Fatalf("expected a reported miss\t got: %+v lost %t ok %t", shot, lost, ok)
	}
	if joiner.Player().OwnGrid != before {
		t.Fatal("redundant shot must leave the board unchanged")
	}
	host.ApplyShotResult(0, 1, shot.Hit)

	if host.Phase() != PhaseOpponentTurn || joiner.Phase() != PhaseMyTurn {
		t.Fatalf("zero new hits must pass the turn\t got host %s joiner %s", host.Phase(), joiner.Phase())
	}
}

func TestRedundantShotAtMissPassesTurn(t *testing.T) {
	host, joiner := newStartedPair(t)
	exchangeShot(t, host, joiner, 9, 9)
	exchangeShot(t, joiner, host, 9, 9)

	if _, _, ok := joiner.ReceiveShot(9, 9); !ok {
		t.Fatal("redundant shot must not be dropped")
	}
	if joiner.Phase() != PhaseMyTurn {
		t.Fatalf("repeated miss passes the turn to the defender\t got: %s", joiner.Phase())
	}
}

func TestInboundDroppedDuringPlacement(t *testing.T) {
	g := NewGame(false, PlacementOverlap)
	g.PlaceShip(0, 0)

	if _, _, ok := g.ReceiveShot(0, 0); ok {
		t.Fatal("shot during placement must be dropped")
	}
	if g.Player().OwnGrid.CellState(0, 0) != CellShip {
		t.Fatal("board must be unchanged")
	}
	if g.ApplyShotResult(1, 1, true) {
		t.Fatal("result during placement must be dropped")
	}
}

func TestFullMatchEndsWithWinner(t *testing.T) {
	host, joiner := newStartedPair(t)

	fleet := []Coordinates{
		{0, 0}, {0, 1}, {0, 2}, {0, 3},
		{2, 0}, {2, 1}, {2, 2},
		{4, 0}, {4, 1}, {4, 2},
	}

	var lost bool
	for _, c := range fleet {
		_, lost = exchangeShot(t, host, joiner, c.X, c.Y)
	}
	if !lost {
		t.Fatal("expected the joiner to lose on the last hit")
	}

	if !host.IsOver() || !host.Won() {
		t.Fatal("host must have won")
	}
	if !joiner.IsOver() || joiner.Won() {
		t.Fatal("joiner must have lost")
	}

	events := joiner.DrainEvents()
	last := events[len(events)-1]
	if last.Kind != EventGameOver || last.Won {
		t.Fatalf("expected a lost game over event\t got: %+v", last)
	}

	if err := host.ValidateShot(9, 9); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("actions after the match must be rejected\t got: %v", err)
	}
	if _, _, ok := joiner.ReceiveShot(9, 9); ok {
		t.Fatal("inbound after the match must be dropped")
	}
	if host.OpponentDefeated() {
		t.Fatal("second defeat notice must be ignored")
	}

	hostTrack, joinerOwn := host.Player().TrackGrid, joiner.Player().OwnGrid
	if host.ApplyShotResult(9, 9, false) {
		t.Fatal("RESULT after the match must be dropped")
	}
	if _, _, _, ok := joiner.ReceiveSpecial(SpecialArea3x3, 8, 8); ok {
		t.Fatal("SPECIAL after the match must be dropped")
	}
	if host.ApplySpecialResult(true) {
		t.Fatal("SPECIAL_RESULT after the match must be dropped")
	}
	if host.Player().TrackGrid != hostTrack || joiner.Player().OwnGrid != joinerOwn {
		t.Fatal("boards must be frozen after the match")
	}
	if !joiner.opponentInventory.Available(SpecialArea3x3) || !host.Won() || joiner.Won() {
		t.Fatal("match outcome must be unchanged")
	}
}

func TestSpecialAttackExchange(t *testing.T) {
	host, joiner := newStartedPair(t)

	if !host.SelectSpecialAttack(SpecialArea3x3) {
		t.Fatal("expected selection to succeed")
	}
	if err := host.ValidateShot(1, 1); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatal("normal shot must be rejected with a special selected")
	}

	kind, err := host.ValidateSpecial(8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	host.CommitSpecial(kind, 8, 8)

	if host.Player().Inventory.Available(SpecialArea3x3) {
		t.Fatal("slot must be spent on commit")
	}
	if host.Selected() != SpecialNone {
		t.Fatal("selection must be cleared on commit")
	}

	_, hit, lost, ok := joiner.ReceiveSpecial(kind, 8, 8)
	if !ok || hit || lost {
		t.Fatalf("expected a clean miss\t got: hit %t lost %t ok %t", hit, lost, ok)
	}
	host.ApplySpecialResult(hit)

	for _, c := range AreaCells(8, 8) {
		if host.Player().TrackGrid.CellState(c.X, c.Y) != CellMiss {
			t.Fatalf("expected inferred miss at (%d,%d)", c.X, c.Y)
		}
	}
	if host.Phase() != PhaseOpponentTurn || joiner.Phase() != PhaseMyTurn {
		t.Fatalf("miss must pass the turn\t got host %s joiner %s", host.Phase(), joiner.Phase())
	}

	if joiner.SelectSpecialAttack(SpecialNone) != true {
		t.Fatal("clearing the selection must succeed on turn")
	}
}

func TestSpecialHitMarksCoverageUncertain(t *testing.T) {
	host, joiner := newStartedPair(t)

	host.SelectSpecialAttack(SpecialLineVertical)
	kind, err := host.ValidateSpecial(2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	host.CommitSpecial(kind, 2, 5)

	shots, hit, _, ok := joiner.ReceiveSpecial(kind, 2, 5)
	if !ok || !hit || CountHits(shots) != 1 {
		t.Fatalf("expected one hit\t got: %+v", shots)
	}
	host.ApplySpecialResult(hit)

	if host.Phase() != PhaseMyTurn {
		t.Fatalf("hit keeps the turn\t got: %s", host.Phase())
	}
	if !host.Uncertain(2, 0) || host.Player().TrackGrid.CellState(2, 0).IsResolved() {
		t.Fatal("covered cells must be left uncertain")
	}
}

func TestRepeatedSpecialCountsAsMiss(t *testing.T) {
	_, joiner := newStartedPair(t)

	if _, hit, _, ok := joiner.ReceiveSpecial(SpecialArea3x3, 8, 8); !ok || hit {
		t.Fatal("expected first area attack to miss")
	}

	before := joiner.Player().OwnGrid
	shots, hit, _, ok := joiner.ReceiveSpecial(SpecialArea3x3, 1, 1)
	if !ok || hit || len(shots) != 0 {
		t.Fatalf("spent special must resolve nothing\t got: %+v", shots)
	}
	if joiner.Player().OwnGrid != before {
		t.Fatal("board must be unchanged")
	}
}

func TestSelectSpecialRejections(t *testing.T) {
	host, joiner := newStartedPair(t)

	if joiner.SelectSpecialAttack(SpecialArea3x3) {
		t.Fatal("selection off turn must fail")
	}

	host.SelectSpecialAttack(SpecialLineHorizontal)
	kind, _ := host.ValidateSpecial(0, 9)
	host.CommitSpecial(kind, 0, 9)
	_, hit, _, _ := joiner.ReceiveSpecial(kind, 0, 9)
	host.ApplySpecialResult(hit)

	// The whole row 9 is empty so the turn passed; take it back with a miss.
	exchangeShot(t, joiner, host, 9, 9)
	if host.SelectSpecialAttack(SpecialLineHorizontal) {
		t.Fatal("spent special must not be selectable")
	}

	if _, err := host.ValidateSpecial(1, 1); !errors.Is(err, cerr.ErrActionRejected) {
		t.Fatalf("expected rejection without selection\t got: %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	host, _ := newStartedPair(t)
	snap := host.Snapshot()

	if snap.Phase != PhaseMyTurn || !snap.Ready || !snap.OpponentReady {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Uuid) != 6 {
		t.Fatalf("expected 6 character id\t got: %q", snap.Uuid)
	}
	for _, k := range SpecialKinds {
		if !snap.Available[k] {
			t.Fatalf("%s must be available", k)
		}
	}

	snap.OwnGrid[0][0] = CellEmpty
	if host.Player().OwnGrid.CellState(0, 0) != CellShip {
		t.Fatal("snapshot must be a copy")
	}
}
