package api

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"go.uber.org/zap"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// frames are a few bytes long
		ReadBufferSize:  512,
		WriteBufferSize: 512,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	dialer = websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
)

// Host listens on the match address and blocks until an opponent connects
// or ctx is done. The hosting side moves first.
func (p *Peer) Host(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.matchAddr)
	if err != nil {
		return cerr.ErrListenFailed(p.matchAddr, err)
	}
	return p.Accept(ctx, ln)
}

// Accept takes the first opponent arriving on ln and closes ln.
func (p *Peer) Accept(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	if p.Connected() {
		return cerr.ErrAlreadyConnected(p.Snapshot().RemoteAddr)
	}

	p.logger.Info("waiting for an opponent",
		zap.String("addr", ln.Addr().String()),
		zap.String("transport", p.transport),
	)

	var (
		link mc.Link
		err  error
	)
	switch p.transport {
	case mc.TransportWs:
		link, err = p.acceptWs(ctx, ln)
	default:
		link, err = p.acceptTCP(ctx, ln)
	}
	if err != nil {
		return err
	}

	return p.attach(link, true)
}

func (p *Peer) acceptTCP(ctx context.Context, ln net.Listener) (mc.Link, error) {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cerr.ErrListenFailed(ln.Addr().String(), err)
	}
	return mc.NewLineLink(conn, p.writeTimeout), nil
}

func (p *Peer) acceptWs(ctx context.Context, ln net.Listener) (mc.Link, error) {
	conns := make(chan *websocket.Conn, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+WsPath, func(w http.ResponseWriter, r *http.Request) {
		// use Upgrade method to make a websocket connection
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			p.logger.Warn("could not open websocket connection", zap.Error(err))
			return
		}

		select {
		case conns <- conn:
		default:
			// Only the first opponent gets the match.
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "match is taken"),
				time.Now().Add(time.Second),
			)
			conn.Close()
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second * 5}
	errs := make(chan error, 1)
	go func() { errs <- srv.Serve(ln) }()

	// Hijacked connections outlive the server.
	defer srv.Close()

	select {
	case conn := <-conns:
		return mc.NewWsLink(conn, p.writeTimeout), nil
	case err := <-errs:
		return nil, cerr.ErrListenFailed(ln.Addr().String(), err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Join connects to a hosting peer at addr. The joining side moves second.
func (p *Peer) Join(ctx context.Context, addr string) error {
	if p.Connected() {
		return cerr.ErrAlreadyConnected(p.Snapshot().RemoteAddr)
	}

	var link mc.Link
	switch p.transport {
	case mc.TransportWs:
		u := url.URL{Scheme: "ws", Host: addr, Path: WsPath}
		conn, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return cerr.ErrDialFailed(addr, err)
		}
		link = mc.NewWsLink(conn, p.writeTimeout)

	default:
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return cerr.ErrDialFailed(addr, err)
		}
		link = mc.NewLineLink(conn, p.writeTimeout)
	}

	return p.attach(link, false)
}

// attach binds a fresh link to the peer under a new generation and starts
// its reader.
func (p *Peer) attach(link mc.Link, firstMover bool) error {
	p.mu.Lock()
	defer p.unlockAndFlush()

	if p.closed {
		link.Close()
		return cerr.ErrPeerClosed()
	}
	if p.session != nil {
		link.Close()
		return cerr.ErrAlreadyConnected(p.session.RemoteAddr())
	}

	// Ships placed while idle are kept.
	if !p.game.SetFirstMover(firstMover) {
		p.replaceGameLocked(firstMover)
	}

	p.generation++
	session := mc.NewSession(link)
	p.session = session
	go p.processSessionMessages(p.generation, session)

	addr := session.RemoteAddr()
	obs := p.observer
	p.pending = append(p.pending, func() { obs.OnPeerConnected(addr) })

	p.logger.Info("opponent connected",
		zap.String("session", session.Id()),
		zap.String("remote_addr", addr),
		zap.String("game", p.game.Uuid()),
		zap.Bool("first_mover", firstMover),
		zap.Stringer("placement_rule", p.game.Rule()),
	)
	return nil
}
