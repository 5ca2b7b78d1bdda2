package api

import mb "github.com/saeidalz13/battleship-p2p/models/battleship"

// Observer receives state notifications. Calls are made without the peer
// lock held, in the order the changes happened, so an observer may call
// back into the Peer.
type Observer interface {
	OnBoardChanged()
	OnPhaseChanged(phase mb.Phase)
	OnSpecialInventoryChanged()
	OnGameOver(won bool)
	OnPeerConnected(addr string)
	OnPeerDisconnected(addr string)
}

// NopObserver ignores every notification. Embed it to implement only the
// callbacks you need.
type NopObserver struct{}

func (NopObserver) OnBoardChanged() {}
func (NopObserver) OnPhaseChanged(mb.Phase) {}
func (NopObserver) OnSpecialInventoryChanged() {}
func (NopObserver) OnGameOver(bool) {}
func (NopObserver) OnPeerConnected(string) {}
func (NopObserver) OnPeerDisconnected(string) {}

var _ Observer = NopObserver{}
