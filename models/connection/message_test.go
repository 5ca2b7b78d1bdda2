package connection

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
)

type Test[T, K any] struct {
	name     string
	input    T
	expected K
}

func TestEncode(t *testing.T) {
	tests := []Test[Message, string]{
		{name: "shot", input: NewShotMessage(0, 9), expected: "SHOT:0:9"},
		{name: "result hit", input: NewResultMessage(3, 4, true), expected: "RESULT:3:4:HIT"},
		{name: "result miss", input: NewResultMessage(0, 0, false), expected: "RESULT:0:0:MISS"},
		{name: "ready", input: NewReadyMessage(), expected: "READY"},
		{name: "win", input: NewWinMessage(), expected: "WIN"},
		{name: "special horizontal", input: NewSpecialMessage(mb.SpecialLineHorizontal, 1, 2), expected: "SPECIAL:HorizontalLine:1:2"},
		{name: "special vertical", input: NewSpecialMessage(mb.SpecialLineVertical, 5, 5), expected: "SPECIAL:VerticalLine:5:5"},
		{name: "special area", input: NewSpecialMessage(mb.SpecialArea3x3, 9, 0), expected: "SPECIAL:Area3x3:9:0"},
		{name: "special result hit", input: NewSpecialResultMessage(true), expected: "SPECIAL_RESULT:HIT"},
		{name: "special result miss", input: NewSpecialResultMessage(false), expected: "SPECIAL_RESULT:MISS"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Encode(test.input)
			if got != test.expected {
				t.Fatalf("expected: %s\t got: %s", test.expected, got)
			}

			decoded, err := Decode(got)
			if err != nil {
				t.Fatalf("failed to decode %s: %v", got, err)
			}
			if decoded != test.input {
				t.Fatalf("expected: %+v\t got: %+v", test.input, decoded)
			}
		})
	}
}

func TestDecodeRoundTripAllCoordinates(t *testing.T) {
	for x := 0; x < mb.GridSize; x++ {
		for y := 0; y < mb.GridSize; y++ {
			for _, m := range []Message{
				NewShotMessage(x, y),
				NewResultMessage(x, y, (x+y)%2 == 0),
				NewSpecialMessage(mb.SpecialKinds[(x+y)%len(mb.SpecialKinds)], x, y),
			} {
				decoded, err := Decode(Encode(m))
				if err != nil || decoded != m {
					t.Fatalf("expected: %+v\t got: %+v (%v)", m, decoded, err)
				}
			}
		}
	}
}

func TestDecodeTrimsLineEndings(t *testing.T) {
	for _, frame := range []string{"SHOT:1:2\r", "SHOT:1:2\n", "SHOT:1:2\r\n", " SHOT:1:2 "} {
		m, err := Decode(frame)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", frame, err)
		}
		if m != NewShotMessage(1, 2) {
			t.Fatalf("%q: expected shot at (1,2)\t got: %+v", frame, m)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []Test[string, error]{
		{name: "empty", input: ""},
		{name: "unknown kind", input: "FIRE:1:2"},
		{name: "lower case kind", input: "shot:1:2"},
		{name: "shot missing field", input: "SHOT:1"},
		{name: "shot extra field", input: "SHOT:1:2:3"},
		{name: "shot non int", input: "SHOT:a:2"},
		{name: "shot float", input: "SHOT:1.5:2"},
		{name: "shot negative", input: "SHOT:-1:2"},
		{name: "shot above bound", input: "SHOT:1:10"},
		{name: "result missing outcome", input: "RESULT:1:2"},
		{name: "result bad outcome", input: "RESULT:1:2:SUNK"},
		{name: "result lower case outcome", input: "RESULT:1:2:hit"},
		{name: "result out of bound", input: "RESULT:12:2:HIT"},
		{name: "ready with payload", input: "READY:1"},
		{name: "win with payload", input: "WIN:now"},
		{name: "special unknown type", input: "SPECIAL:Diagonal:1:2"},
		{name: "special none", input: "SPECIAL:None:1:2"},
		{name: "special missing coordinate", input: "SPECIAL:Area3x3:1"},
		{name: "special bad coordinate", input: "SPECIAL:Area3x3:1:y"},
		{name: "special result missing outcome", input: "SPECIAL_RESULT"},
		{name: "special result bad outcome", input: "SPECIAL_RESULT:MAYBE"},
		{name: "special result extra", input: "SPECIAL_RESULT:HIT:1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.input)
			if !errors.Is(err, cerr.ErrMalformedMessage) {
				t.Fatalf("expected malformed message error\t got: %v", err)
			}
		})
	}
}
