package connection

import (
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

// Message is one decoded frame. Only the fields of its kind are meaningful.
type Message struct {
	Kind    Kind
	X       int
	Y       int
	Hit     bool
	Special mb.SpecialKind
}

func NewShotMessage(x, y int) Message {
	return Message{Kind: KindShot, X: x, Y: y}
}

func NewResultMessage(x, y int, hit bool) Message {
	return Message{Kind: KindResult, X: x, Y: y, Hit: hit}
}

func NewReadyMessage() Message {
	return Message{Kind: KindReady}
}

func NewWinMessage() Message {
	return Message{Kind: KindWin}
}

func NewSpecialMessage(kind mb.SpecialKind, x, y int) Message {
	return Message{Kind: KindSpecial, Special: kind, X: x, Y: y}
}

func NewSpecialResultMessage(hit bool) Message {
	return Message{Kind: KindSpecialResult, Hit: hit}
}

// Encode renders the frame without its line terminator.
func Encode(m Message) string {
	fields := []string{m.Kind.String()}

	switch m.Kind {
	case KindShot:
		fields = append(fields, strconv.Itoa(m.X), strconv.Itoa(m.Y))
	case KindResult:
		fields = append(fields, strconv.Itoa(m.X), strconv.Itoa(m.Y), outcome(m.Hit))
	case KindSpecial:
		fields = append(fields, m.Special.String(), strconv.Itoa(m.X), strconv.Itoa(m.Y))
	case KindSpecialResult:
		fields = append(fields, outcome(m.Hit))
	}

	return strings.Join(fields, fieldSeparator)
}

// Decode parses a single frame. Surrounding whitespace, the trailing \r of
// CRLF peers included, is ignored. Every failure wraps
// cerr.ErrMalformedMessage.
func Decode(frame string) (Message, error) {
	fields := strings.Split(strings.TrimSpace(frame), fieldSeparator)

	kind, prs := kindByToken[fields[0]]
	if !prs {
		return Message{}, cerr.ErrUnknownMessageKind(fields[0])
	}
	if len(fields) != fieldCount[kind] {
		return Message{}, cerr.ErrInvalidFieldCount(kind.String(), fieldCount[kind], len(fields))
	}

	m := Message{Kind: kind}
	var err error

	switch kind {
	case KindShot:
		m.X, m.Y, err = decodeCoordinates(fields[1], fields[2])

	case KindResult:
		if m.X, m.Y, err = decodeCoordinates(fields[1], fields[2]); err == nil {
			m.Hit, err = decodeOutcome(fields[3])
		}

	case KindSpecial:
		if m.Special, err = mb.ParseSpecialKind(fields[1]); err != nil {
			return Message{}, cerr.ErrUnknownSpecialKind(fields[1])
		}
		m.X, m.Y, err = decodeCoordinates(fields[2], fields[3])

	case KindSpecialResult:
		m.Hit, err = decodeOutcome(fields[1])
	}

	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func decodeCoordinates(xs, ys string) (int, int, error) {
	x, err := decodeCoordinate(xs)
	if err != nil {
		return 0, 0, err
	}
	y, err := decodeCoordinate(ys)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func decodeCoordinate(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, cerr.ErrValueNotInt(s)
	}
	if v < mb.ValidLowerBound || v > mb.ValidUpperBound {
		return 0, cerr.ErrCoordinateOutOfGridBound(v)
	}
	return v, nil
}

func decodeOutcome(s string) (bool, error) {
	switch s {
	case outcomeHit:
		return true, nil
	case outcomeMiss:
		return false, nil
	default:
		return false, cerr.ErrUnknownOutcome(s)
	}
}
