package api

import (
	mb "github.com/saeidalz13/battleship-p2p/models/battleship"
	mc "github.com/saeidalz13/battleship-p2p/models/connection"
	"go.uber.org/zap"
)

// Inbound handlers run on the dispatcher with mu held. The game drops
// whatever does not fit the current phase; the handlers only answer.

func (p *Peer) handleShot(s *mc.Session, m mc.Message) {
	shot, lost, ok := p.game.ReceiveShot(m.X, m.Y)
	if !ok {
		p.dropLocked(m)
		return
	}

	p.replyLocked(s, mc.NewResultMessage(m.X, m.Y, shot.Hit))
	if lost {
		p.replyLocked(s, mc.NewWinMessage())
	}
}

func (p *Peer) handleResult(m mc.Message) {
	if !p.game.ApplyShotResult(m.X, m.Y, m.Hit) {
		p.dropLocked(m)
	}
}

func (p *Peer) handleReady(m mc.Message) {
	if p.game.Phase() != mb.PhasePlacement {
		p.dropLocked(m)
		return
	}
	p.game.MarkOpponentReady()
}

func (p *Peer) handleSpecial(s *mc.Session, m mc.Message) {
	_, hit, lost, ok := p.game.ReceiveSpecial(m.Special, m.X, m.Y)
	if !ok {
		p.dropLocked(m)
		return
	}

	p.replyLocked(s, mc.NewSpecialResultMessage(hit))
	if lost {
		p.replyLocked(s, mc.NewWinMessage())
	}
}

func (p *Peer) handleSpecialResult(m mc.Message) {
	if !p.game.ApplySpecialResult(m.Hit) {
		p.dropLocked(m)
	}
}

func (p *Peer) handleWin(m mc.Message) {
	if !p.game.OpponentDefeated() {
		p.dropLocked(m)
	}
}

// replyLocked sends an answer the opponent is waiting for. A failure is
// only logged: the local state is already applied and the broken link will
// end the read loop.
func (p *Peer) replyLocked(s *mc.Session, m mc.Message) {
	if err := s.Send(m); err != nil {
		p.logger.Warn("reply failed",
			zap.String("session", s.Id()),
			zap.Stringer("kind", m.Kind),
			zap.Error(err),
		)
	}
}

func (p *Peer) dropLocked(m mc.Message) {
	p.logger.Debug("dropped message",
		zap.Stringer("kind", m.Kind),
		zap.Stringer("phase", p.game.Phase()),
	)
}
