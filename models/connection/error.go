package connection

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
)

// Loop codes telling a read loop what to do after a failed read.
const (
	ConnLoopBreak uint8 = iota
	ConnLoopClosed
	ConnLoopContinue
)

type ConnErr struct {
	code uint8
	desc string
	err  error
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) Error() string {
	return fmt.Sprintf("Connection error - Code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Code() uint8 {
	return c.code
}

func (c ConnErr) Unwrap() error {
	return c.err
}

// OnConnErr classifies a read error. Malformed frames are skipped, an
// orderly shutdown by either side is reported as closed and anything else
// ends the loop as a failure.
func OnConnErr(err error) ConnErr {
	c := ConnErr{err: err, desc: err.Error()}

	switch {
	case errors.Is(err, cerr.ErrMalformedMessage):
		c.code = ConnLoopContinue

	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), errors.Is(err, io.ErrClosedPipe):
		c.code = ConnLoopClosed

	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.code = ConnLoopClosed

	default:
		c.code = ConnLoopBreak
	}
	return c
}
