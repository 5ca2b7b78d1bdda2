package api

import (
	"context"

	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// processSessionMessages reads the link of one generation until it ends
// and queues every decoded message for the dispatcher.
func (p *Peer) processSessionMessages(generation uint64, session *mc.Session) {
	logger := p.logger.With(
		zap.String("session", session.Id()),
		zap.String("remote_addr", session.RemoteAddr()),
	)

sessionLoop:
	for {
		msg, err := session.Receive()
		if err != nil {
			connErr := mc.OnConnErr(err)

			switch connErr.Code() {
			case mc.ConnLoopContinue:
				logger.Debug("dropped malformed frame", zap.Error(err))
				continue sessionLoop

			case mc.ConnLoopClosed:
				logger.Info("connection closed", zap.Error(err))

			default:
				logger.Warn("connection failed", zap.Error(connErr))
			}
			break sessionLoop
		}

		if !p.enqueue(inboundFrame{generation: generation, msg: msg}) {
			return
		}
	}

	p.enqueue(inboundFrame{generation: generation, closed: true})
}

func (p *Peer) enqueue(f inboundFrame) bool {
	select {
	case p.inbound <- f:
		return true
	case <-p.done:
		return false
	}
}

// dispatch is the single consumer of inbound frames.
func (p *Peer) dispatch() {
	for {
		select {
		case <-p.done:
			return
		case f := <-p.inbound:
			p.handleFrame(f)
		}
	}
}

func (p *Peer) handleFrame(f inboundFrame) {
	p.mu.Lock()
	defer p.unlockAndFlush()

	// Frames of a link that was torn down must not touch the new match.
	if f.generation != p.generation || p.session == nil {
		p.logger.Debug("discarded frame of a closed link",
			zap.Uint64("frame_generation", f.generation),
			zap.Uint64("generation", p.generation),
		)
		return
	}

	if f.closed {
		p.logger.Info("opponent disconnected", zap.String("remote_addr", p.session.RemoteAddr()))
		p.resetLocked()
		return
	}

	session := p.session
	_, span := p.tracer.Start(context.Background(), "peer.handle_message",
		trace.WithAttributes(
			attribute.String("kind", f.msg.Kind.String()),
			attribute.String("session", session.Id()),
		))
	defer span.End()

	switch f.msg.Kind {
	case mc.KindShot:
		p.handleShot(session, f.msg)

	case mc.KindResult:
		p.handleResult(f.msg)

	case mc.KindReady:
		p.handleReady(f.msg)

	case mc.KindSpecial:
		p.handleSpecial(session, f.msg)

	case mc.KindSpecialResult:
		p.handleSpecialResult(f.msg)

	case mc.KindWin:
		p.handleWin(f.msg)
	}

	span.SetAttributes(attribute.String("phase", p.game.Phase().String()))
}
