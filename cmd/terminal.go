package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/saeidalz13/battleship-p2p/api"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

const helpText = `commands:
  place x y     place the next ship with its top-left cell at (x, y)
  rotate        flip the orientation of the next ship
  ready         lock the fleet
  fire x y      shoot, or fire the selected special attack
  special h|v|a|none
                select a horizontal line, vertical line or 3x3 area attack
  board         print both grids
  quit          leave the match
`

// terminal renders the match on a writer and turns input lines into peer
// actions.
type terminal struct {
	mu   sync.Mutex
	out  io.Writer
	peer *api.Peer
}

var _ api.Observer = (*terminal)(nil)

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) OnBoardChanged() {}

func (t *terminal) OnPhaseChanged(phase mb.Phase) {
	switch phase {
	case mb.PhaseMyTurn:
		t.printBoards()
		t.printf("your turn\n")
	case mb.PhaseOpponentTurn:
		t.printBoards()
		t.printf("opponent's turn\n")
	case mb.PhasePlacement:
		t.printf("place your fleet\n")
	}
}

func (t *terminal) OnSpecialInventoryChanged() {}

func (t *terminal) OnGameOver(won bool) {
	t.printBoards()
	if won {
		t.printf("you won\n")
		return
	}
	t.printf("you lost\n")
}

func (t *terminal) OnPeerConnected(addr string) {
	t.printf("opponent connected from %s\n", addr)
}

func (t *terminal) OnPeerDisconnected(addr string) {
	t.printf("opponent %s left, match discarded\n", addr)
}

func (t *terminal) printBoards() {
	if t.peer == nil {
		return
	}
	snap := t.peer.Snapshot()

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, renderBoards(snap))
}

func renderBoards(snap api.PeerSnapshot) string {
	var sb strings.Builder

	header := "  0123456789"
	fmt.Fprintf(&sb, "%s   %s\n", header, header)
	for y := 0; y < mb.GridSize; y++ {
		fmt.Fprintf(&sb, "%d ", y)
		for x := 0; x < mb.GridSize; x++ {
			sb.WriteByte(cellRune(snap.OwnGrid[x][y]))
		}
		fmt.Fprintf(&sb, "   %d ", y)
		for x := 0; x < mb.GridSize; x++ {
			sb.WriteByte(cellRune(snap.TrackGrid[x][y]))
		}
		sb.WriteByte('\n')
	}

	var specials []string
	for _, k := range mb.SpecialKinds {
		if snap.Available[k] {
			specials = append(specials, k.String())
		}
	}
	fmt.Fprintf(&sb, "phase: %s\tspecials: %s\n", snap.Phase, strings.Join(specials, ","))
	return sb.String()
}

func cellRune(c mb.Cell) byte {
	switch c {
	case mb.CellShip:
		return '#'
	case mb.CellHit:
		return 'X'
	case mb.CellMiss:
		return 'o'
	default:
		return '.'
	}
}

// run reads commands until quit, EOF or ctx is done.
func (t *terminal) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	t.printf("%s", helpText)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := t.execute(line); quit {
				return
			}
		}
	}
}

func (t *terminal) execute(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "place":
		x, y, err := parseXY(fields[1:])
		if err != nil {
			t.printf("%v\n", err)
			return false
		}
		if !t.peer.PlaceShip(x, y) {
			t.printf("cannot place a ship at (%d,%d)\n", x, y)
			return false
		}
		t.printBoards()

	case "rotate":
		t.peer.RotateShip()
		if t.peer.Snapshot().Horizontal {
			t.printf("next ship is horizontal\n")
		} else {
			t.printf("next ship is vertical\n")
		}

	case "ready":
		if err := t.peer.SetReady(); err != nil {
			t.printf("%v\n", err)
			return false
		}
		t.printf("waiting for the opponent\n")

	case "fire":
		x, y, err := parseXY(fields[1:])
		if err != nil {
			t.printf("%v\n", err)
			return false
		}
		if t.peer.Snapshot().Selected != mb.SpecialNone {
			err = t.peer.FireSpecialAttack(x, y)
		} else {
			err = t.peer.FireNormalShot(x, y)
		}
		if err != nil {
			t.printf("%v\n", err)
		}

	case "special":
		if len(fields) != 2 {
			t.printf("usage: special h|v|a|none\n")
			return false
		}
		kind, ok := specialByShortName[fields[1]]
		if !ok {
			t.printf("unknown special attack: %s\n", fields[1])
			return false
		}
		if !t.peer.SelectSpecialAttack(kind) {
			t.printf("%s is not available now\n", kind)
		}

	case "board":
		t.printBoards()

	case "quit":
		return true

	default:
		t.printf("%s", helpText)
	}
	return false
}

var specialByShortName = map[string]mb.SpecialKind{
	"h":    mb.SpecialLineHorizontal,
	"v":    mb.SpecialLineVertical,
	"a":    mb.SpecialArea3x3,
	"none": mb.SpecialNone,
}

func parseXY(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected x and y, got %d values", len(args))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x: %s", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y: %s", args[1])
	}
	return x, y, nil
}
