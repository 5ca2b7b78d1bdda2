package api

import (
	"context"

	cerr "github.com/saeidalz13/battleship-p2p/internal/error"
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

/*
	Local actions. Each one checks the game first, sends the message while
	still holding the lock and commits only after the write succeeded, so a
	failed send leaves the match untouched.
*/

func (p *Peer) PlaceShip(x, y int) bool {
	p.mu.Lock()
	defer p.unlockAndFlush()
	return p.game.PlaceShip(x, y)
}

func (p *Peer) RotateShip() bool {
	p.mu.Lock()
	defer p.unlockAndFlush()
	return p.game.RotateShip()
}

func (p *Peer) SetReady() error {
	p.mu.Lock()
	defer p.unlockAndFlush()

	if err := p.game.ValidateReady(); err != nil {
		return err
	}
	if err := p.sendLocked(mc.NewReadyMessage()); err != nil {
		return err
	}
	return p.game.SetReady()
}

func (p *Peer) FireNormalShot(x, y int) error {
	_, span := p.tracer.Start(context.Background(), "peer.fire_shot",
		trace.WithAttributes(attribute.Int("x", x), attribute.Int("y", y)))
	defer span.End()

	p.mu.Lock()
	defer p.unlockAndFlush()

	if err := p.game.ValidateShot(x, y); err != nil {
		return spanErr(span, err)
	}
	if err := p.sendLocked(mc.NewShotMessage(x, y)); err != nil {
		return spanErr(span, err)
	}

	p.game.CommitShot(x, y)
	p.logger.Debug("shot fired", zap.String("game", p.game.Uuid()), zap.Int("x", x), zap.Int("y", y))
	return nil
}

// SelectSpecialAttack arms a special attack for the next fire. SpecialNone
// clears the selection.
func (p *Peer) SelectSpecialAttack(kind mb.SpecialKind) bool {
	p.mu.Lock()
	defer p.unlockAndFlush()
	return p.game.SelectSpecialAttack(kind)
}

func (p *Peer) FireSpecialAttack(x, y int) error {
	_, span := p.tracer.Start(context.Background(), "peer.fire_special",
		trace.WithAttributes(attribute.Int("x", x), attribute.Int("y", y)))
	defer span.End()

	p.mu.Lock()
	defer p.unlockAndFlush()

	kind, err := p.game.ValidateSpecial(x, y)
	if err != nil {
		return spanErr(span, err)
	}
	span.SetAttributes(attribute.String("special", kind.String()))

	if err := p.sendLocked(mc.NewSpecialMessage(kind, x, y)); err != nil {
		return spanErr(span, err)
	}

	p.game.CommitSpecial(kind, x, y)
	p.logger.Debug("special attack fired",
		zap.String("game", p.game.Uuid()),
		zap.Stringer("special", kind),
		zap.Int("x", x),
		zap.Int("y", y),
	)
	return nil
}

func (p *Peer) sendLocked(m mc.Message) error {
	if p.session == nil {
		return cerr.ErrNotConnected
	}
	if err := p.session.Send(m); err != nil {
		p.logger.Warn("send failed",
			zap.String("session", p.session.Id()),
			zap.Stringer("kind", m.Kind),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
