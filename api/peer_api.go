package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/saeidalz13/battleship-p2p/db/sqlc"
	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	"github.com/saeidalz13/battleship-p2p/internal/telemetry"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"github.com/sqlc-dev/pqtype"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	WsPath = "/seabattle"

	defaultMatchAddr    = ":8080"
	defaultWriteTimeout = time.Second * 5
	inboundQueueSize    = 64

	counterStarted = "matches_started"
	counterWon     = "matches_won"
	counterLost    = "matches_lost"
)

// Analytics receives match counters. Failures are logged and never affect
// the match.
type Analytics interface {
	IncrementMatchesStarted(ctx context.Context, peerIpNet pqtype.Inet) error
	IncrementMatchesWon(ctx context.Context, peerIpNet pqtype.Inet) error
	IncrementMatchesLost(ctx context.Context, peerIpNet pqtype.Inet) error
}

var _ Analytics = (*sqlc.AnalyticsManager)(nil)

// A frame read from the link of one generation. closed marks the end of
// that link.
type inboundFrame struct {
	generation uint64
	msg        mc.Message
	closed     bool
}

// Peer is one side of a match. It owns the Game and serializes local
// actions and inbound messages on a single mutex; inbound messages are
// applied in arrival order by one dispatcher goroutine.
type Peer struct {
	mu           sync.Mutex
	game         *mb.Game
	session      *mc.Session
	generation   uint64
	matchCounted bool
	closed       bool

	// Notifications and analytics updates collected while mu is held.
	pending []func()

	rule         mb.PlacementRule
	transport    string
	matchAddr    string
	writeTimeout time.Duration

	observer  Observer
	logger    *zap.Logger
	tracer    trace.Tracer
	analytics Analytics
	ipInet    pqtype.Inet

	inbound   chan inboundFrame
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Peer) error

func NewPeer(optFuncs ...Option) *Peer {
	p := &Peer{
		rule:         mb.PlacementOverlap,
		transport:    mc.TransportTCP,
		matchAddr:    defaultMatchAddr,
		writeTimeout: defaultWriteTimeout,
		observer:     NopObserver{},
		logger:       zap.NewNop(),
		tracer:       telemetry.Tracer(),
		inbound:      make(chan inboundFrame, inboundQueueSize),
		done:         make(chan struct{}),
	}
	for _, opt := range optFuncs {
		if err := opt(p); err != nil {
			panic(err)
		}
	}

	p.game = mb.NewGame(false, p.rule)
	go p.dispatch()
	return p
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Peer) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		p.logger = logger
		return nil
	}
}

func WithObserver(observer Observer) Option {
	return func(p *Peer) error {
		if observer == nil {
			return errors.New("observer must not be nil")
		}
		p.observer = observer
		return nil
	}
}

func WithTransport(transport string) Option {
	return func(p *Peer) error {
		if transport != mc.TransportTCP && transport != mc.TransportWs {
			return fmt.Errorf("invalid transport: %s", transport)
		}
		p.transport = transport
		return nil
	}
}

func WithPlacementRule(rule mb.PlacementRule) Option {
	return func(p *Peer) error {
		p.rule = rule
		return nil
	}
}

func WithMatchAddr(addr string) Option {
	return func(p *Peer) error {
		p.matchAddr = addr
		return nil
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(p *Peer) error {
		if timeout < 0 {
			return fmt.Errorf("invalid write timeout: %s", timeout)
		}
		p.writeTimeout = timeout
		return nil
	}
}

// WithAnalytics counts matches under the given local address.
func WithAnalytics(analytics Analytics, ipNet net.IPNet) Option {
	return func(p *Peer) error {
		p.analytics = analytics
		p.ipInet = pqtype.Inet{IPNet: ipNet, Valid: true}
		return nil
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Peer) error {
		p.tracer = tracer
		return nil
	}
}

// PeerSnapshot is a read-only copy of the peer state for renderers.
type PeerSnapshot struct {
	mb.Snapshot
	Connected  bool
	RemoteAddr string
}

func (p *Peer) Snapshot() PeerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := PeerSnapshot{Snapshot: p.game.Snapshot()}
	if p.session != nil {
		snap.Connected = true
		snap.RemoteAddr = p.session.RemoteAddr()
	}
	return snap
}

func (p *Peer) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Disconnect closes the link and starts over with a fresh match.
func (p *Peer) Disconnect() error {
	p.mu.Lock()
	defer p.unlockAndFlush()

	if p.session == nil {
		return cerr.ErrNotConnected
	}
	p.resetLocked()
	return nil
}

// Reset discards the match, closing the link if there is one.
func (p *Peer) Reset() {
	p.mu.Lock()
	defer p.unlockAndFlush()
	p.resetLocked()
}

// Close resets the peer and stops the dispatcher. The peer cannot be
// connected again.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.resetLocked()
		p.unlockAndFlush()
		close(p.done)
	})
}

// resetLocked tears down the current link, if any, and replaces the game.
// The generation bump makes the dispatcher discard whatever the old link
// still delivers.
func (p *Peer) resetLocked() {
	p.generation++

	if p.session != nil {
		addr := p.session.RemoteAddr()
		p.logger.Info("link closed",
			zap.String("session", p.session.Id()),
			zap.String("remote_addr", addr),
			zap.Duration("connected_for", time.Since(p.session.CreatedAt())),
		)
		if err := p.session.Close(); err != nil {
			p.logger.Debug("closing link", zap.String("remote_addr", addr), zap.Error(err))
		}
		p.session = nil

		obs := p.observer
		p.pending = append(p.pending, func() { obs.OnPeerDisconnected(addr) })
	}

	p.replaceGameLocked(false)
}

func (p *Peer) replaceGameLocked(firstMover bool) {
	p.collectEventsLocked()
	p.game = mb.NewGame(firstMover, p.rule)
	p.matchCounted = false

	obs := p.observer
	p.pending = append(p.pending,
		func() { obs.OnPhaseChanged(mb.PhasePlacement) },
		obs.OnBoardChanged,
		obs.OnSpecialInventoryChanged,
	)
}

// unlockAndFlush releases mu, then runs the work collected while it was
// held.
func (p *Peer) unlockAndFlush() {
	p.collectEventsLocked()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (p *Peer) collectEventsLocked() {
	obs := p.observer

	for _, ev := range p.game.DrainEvents() {
		switch ev.Kind {
		case mb.EventBoardChanged:
			p.pending = append(p.pending, obs.OnBoardChanged)

		case mb.EventSpecialInventoryChanged:
			p.pending = append(p.pending, obs.OnSpecialInventoryChanged)

		case mb.EventPhaseChanged:
			phase := ev.Phase
			p.pending = append(p.pending, func() { obs.OnPhaseChanged(phase) })

			if !p.matchCounted && (phase == mb.PhaseMyTurn || phase == mb.PhaseOpponentTurn) {
				p.matchCounted = true
				p.logger.Info("match started", zap.String("game", p.game.Uuid()), zap.Stringer("phase", phase))
				p.recordLocked(counterStarted)
			}

		case mb.EventGameOver:
			won := ev.Won
			p.pending = append(p.pending, func() { obs.OnGameOver(won) })

			p.logger.Info("match over", zap.String("game", p.game.Uuid()), zap.Bool("won", won))
			if won {
				p.recordLocked(counterWon)
			} else {
				p.recordLocked(counterLost)
			}
		}
	}
}

func (p *Peer) recordLocked(counter string) {
	if p.analytics == nil {
		return
	}
	analytics, ip, logger := p.analytics, p.ipInet, p.logger

	p.pending = append(p.pending, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
		defer cancel()

		var err error
		switch counter {
		case counterStarted:
			err = analytics.IncrementMatchesStarted(ctx, ip)
		case counterWon:
			err = analytics.IncrementMatchesWon(ctx, ip)
		case counterLost:
			err = analytics.IncrementMatchesLost(ctx, ip)
		}
		if err != nil {
			// for now not killing the game for it
			logger.Warn("analytics update failed", zap.String("counter", counter), zap.Error(err))
		}
	})
}
