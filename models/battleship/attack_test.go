package battleship

import (
	"reflect"
	"testing"
)

func TestResolveShot(t *testing.T) {
	var board Board
	board[1][1] = CellShip

	shots := ResolveShot(&board, 1, 1)
	if len(shots) != 1 || !shots[0].Hit {
		t.Fatalf("expected one hit\t got: %+v", shots)
	}

	if shots := ResolveShot(&board, 1, 1); len(shots) != 0 {
		t.Fatalf("resolved cell must not be reported again\t got: %+v", shots)
	}

	shots = ResolveShot(&board, 2, 2)
	if len(shots) != 1 || shots[0].Hit {
		t.Fatalf("expected one miss\t got: %+v", shots)
	}
}

func TestLineSweepOrder(t *testing.T) {
	got := LineSweepOrder(true, 0, 4)
	expected := []Coordinates{{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4}, {5, 4}, {6, 4}, {7, 4}, {8, 4}, {9, 4}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected: %v\t got: %v", expected, got)
	}

	got = LineSweepOrder(false, 2, 5)
	expected = []Coordinates{{2, 5}, {2, 4}, {2, 6}, {2, 3}, {2, 7}, {2, 2}, {2, 8}, {2, 1}, {2, 9}, {2, 0}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected: %v\t got: %v", expected, got)
	}
}

func TestLineAttackStopsAtFirstShip(t *testing.T) {
	// Ships at x=2 and x=7 on row 3; the origin x=4 is closer to x=2.
	var board Board
	board[2][3] = CellShip
	board[7][3] = CellShip
	board[3][3] = CellMiss

	inv := NewSpecialInventory()
	shots := ResolveSpecial(&board, inv, SpecialLineHorizontal, 4, 3)

	expected := []Shot{NewShot(4, 3, false), NewShot(5, 3, false), NewShot(2, 3, true)}
	if !reflect.DeepEqual(shots, expected) {
		t.Fatalf("expected: %+v\t got: %+v", expected, shots)
	}
	if CountHits(shots) != 1 {
		t.Fatalf("expected exactly one hit\t got: %d", CountHits(shots))
	}
	if board.CellState(7, 3) != CellShip {
		t.Fatal("the sweep must halt after the first hit")
	}
	if board.CellState(3, 3) != CellMiss {
		t.Fatal("resolved cells are skipped")
	}
}

func TestLineAttackAtMostOneHitFromEveryOrigin(t *testing.T) {
	for _, kind := range []SpecialKind{SpecialLineHorizontal, SpecialLineVertical} {
		for x := 0; x < GridSize; x++ {
			for y := 0; y < GridSize; y++ {
				board := placedBoard(t)
				board[x][y] = CellShip

				shots := ResolveSpecial(board, NewSpecialInventory(), kind, x, y)
				if hits := CountHits(shots); hits != 1 {
					t.Fatalf("%s from (%d,%d): expected one hit\t got: %d", kind, x, y, hits)
				}
			}
		}
	}
}

func TestLineAttackAllMiss(t *testing.T) {
	var board Board
	shots := ResolveSpecial(&board, NewSpecialInventory(), SpecialLineVertical, 6, 0)

	if len(shots) != GridSize || CountHits(shots) != 0 {
		t.Fatalf("expected %d misses\t got: %+v", GridSize, shots)
	}
	for y := 0; y < GridSize; y++ {
		if board.CellState(6, y) != CellMiss {
			t.Fatalf("expected miss at (6,%d)\t got: %s", y, board.CellState(6, y))
		}
	}
}

func TestAreaAttack(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		ships        []Coordinates
		resolved     []Coordinates
		expectedLen  int
		expectedHits int
	}{
		{name: "centre all empty", x: 5, y: 5, expectedLen: 9},
		{name: "corner clipped", x: 0, y: 0, expectedLen: 4},
		{name: "edge clipped", x: 9, y: 4, expectedLen: 6},
		{name: "multiple hits", x: 5, y: 5, ships: []Coordinates{{4, 4}, {5, 5}, {6, 6}}, expectedLen: 9, expectedHits: 3},
		{name: "resolved cells skipped", x: 5, y: 5, ships: []Coordinates{{5, 5}}, resolved: []Coordinates{{4, 4}, {4, 5}}, expectedLen: 7, expectedHits: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var board Board
			for _, c := range test.ships {
				board[c.X][c.Y] = CellShip
			}
			for _, c := range test.resolved {
				board[c.X][c.Y] = CellMiss
			}

			shots := ResolveSpecial(&board, NewSpecialInventory(), SpecialArea3x3, test.x, test.y)
			if len(shots) != test.expectedLen {
				t.Fatalf("expected %d shots\t got: %d", test.expectedLen, len(shots))
			}
			if CountHits(shots) != test.expectedHits {
				t.Fatalf("expected %d hits\t got: %d", test.expectedHits, CountHits(shots))
			}
			for _, c := range AreaCells(test.x, test.y) {
				if !board.CellState(c.X, c.Y).IsResolved() {
					t.Fatalf("expected (%d,%d) resolved", c.X, c.Y)
				}
			}
		})
	}
}

func TestSpecialSingleUse(t *testing.T) {
	for _, kind := range SpecialKinds {
		t.Run(kind.String(), func(t *testing.T) {
			var board Board
			inv := NewSpecialInventory()

			if shots := ResolveSpecial(&board, inv, kind, 5, 5); len(shots) == 0 {
				t.Fatal("expected the first use to resolve cells")
			}
			if inv.Available(kind) {
				t.Fatal("expected the slot to be spent")
			}

			var fresh Board
			before := fresh
			if shots := ResolveSpecial(&fresh, inv, kind, 2, 2); len(shots) != 0 {
				t.Fatalf("expected empty result on second use\t got: %+v", shots)
			}
			if fresh != before {
				t.Fatal("second use must not mutate the board")
			}

			for _, other := range SpecialKinds {
				if other != kind && !inv.Available(other) {
					t.Fatalf("%s must stay available", other)
				}
			}
		})
	}
}

func TestSpecialConsumedOnMiss(t *testing.T) {
	var board Board
	inv := NewSpecialInventory()

	shots := ResolveSpecial(&board, inv, SpecialArea3x3, 1, 1)
	if CountHits(shots) != 0 {
		t.Fatal("expected a miss")
	}
	if inv.Available(SpecialArea3x3) {
		t.Fatal("slot must be spent regardless of the outcome")
	}
}

func TestParseSpecialKind(t *testing.T) {
	for _, kind := range SpecialKinds {
		got, err := ParseSpecialKind(kind.String())
		if err != nil || got != kind {
			t.Fatalf("expected: %s\t got: %s (%v)", kind, got, err)
		}
	}
	if _, err := ParseSpecialKind("None"); err == nil {
		t.Fatal("expected error for None")
	}
}
