package error

import (
	"errors"
	"fmt"
)

// Classes of failures. Every constructor below wraps exactly one of them so
// callers can branch with errors.Is.
var (
	ErrActionRejected   = errors.New("action rejected")
	ErrMalformedMessage = errors.New("malformed message")
	ErrTransport        = errors.New("transport failure")
	ErrNotConnected     = errors.New("no peer connected")
)

func ErrWrongPhase(action, phase string) error {
	return fmt.Errorf("%w: %s is not allowed in phase %s", ErrActionRejected, action, phase)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return fmt.Errorf("%w: incoming x or y is out of game grid bound\tx: %d\ty: %d", ErrActionRejected, x, y)
}

func ErrAttackPositionAlreadyFilled(x, y int) error {
	return fmt.Errorf("%w: current position in tracking grid already resolved\tx: %d\ty: %d", ErrActionRejected, x, y)
}

func ErrFleetNotPlaced(remaining int) error {
	return fmt.Errorf("%w: place all ships first, %d remaining", ErrActionRejected, remaining)
}

func ErrAlreadyReady() error {
	return fmt.Errorf("%w: player is already ready", ErrActionRejected)
}

func ErrAttackPending() error {
	return fmt.Errorf("%w: waiting for the result of the previous attack", ErrActionRejected)
}

func ErrSpecialSelected(kind string) error {
	return fmt.Errorf("%w: special attack %s is selected", ErrActionRejected, kind)
}

func ErrNoSpecialSelected() error {
	return fmt.Errorf("%w: no special attack selected", ErrActionRejected)
}

func ErrSpecialSpent(kind string) error {
	return fmt.Errorf("%w: special attack %s was already used", ErrActionRejected, kind)
}

func ErrInvalidFieldCount(kind string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d fields, got %d", ErrMalformedMessage, kind, want, got)
}

func ErrValueNotInt(value string) error {
	return fmt.Errorf("%w: the value is not of type int:\t%s", ErrMalformedMessage, value)
}

func ErrCoordinateOutOfGridBound(value int) error {
	return fmt.Errorf("%w: coordinate is out of game grid bound:\t%d", ErrMalformedMessage, value)
}

func ErrUnknownMessageKind(kind string) error {
	return fmt.Errorf("%w: unknown message kind:\t%s", ErrMalformedMessage, kind)
}

func ErrUnknownOutcome(outcome string) error {
	return fmt.Errorf("%w: outcome must be HIT or MISS, got:\t%s", ErrMalformedMessage, outcome)
}

func ErrUnknownSpecialKind(kind string) error {
	return fmt.Errorf("%w: unknown special attack type:\t%s", ErrMalformedMessage, kind)
}

func ErrSendFailed(addr string, err error) error {
	return fmt.Errorf("%w: write to %s: %w", ErrTransport, addr, err)
}

func ErrDialFailed(addr string, err error) error {
	return fmt.Errorf("%w: dial %s: %w", ErrTransport, addr, err)
}

func ErrListenFailed(addr string, err error) error {
	return fmt.Errorf("%w: listen on %s: %w", ErrTransport, addr, err)
}

func ErrAlreadyConnected(addr string) error {
	return fmt.Errorf("%w: already connected to %s", ErrActionRejected, addr)
}

func ErrNonTextFrame(frameType int) error {
	return fmt.Errorf("%w: only text frames are accepted, got type %d", ErrMalformedMessage, frameType)
}

func ErrPeerClosed() error {
	return fmt.Errorf("%w: peer is closed", ErrTransport)
}
