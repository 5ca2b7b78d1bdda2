package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager counts matches per peer address. It never stores game
// state.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementMatchesStarted(ctx context.Context, peerIpNet pqtype.Inet) error {
	return a.queries.IncrementMatchesStarted(ctx, peerIpNet)
}

func (a *AnalyticsManager) IncrementMatchesWon(ctx context.Context, peerIpNet pqtype.Inet) error {
	return a.queries.IncrementMatchesWon(ctx, peerIpNet)
}

func (a *AnalyticsManager) IncrementMatchesLost(ctx context.Context, peerIpNet pqtype.Inet) error {
	return a.queries.IncrementMatchesLost(ctx, peerIpNet)
}

func (a *AnalyticsManager) GetMatchesStartedCount(ctx context.Context, peerIpNet pqtype.Inet) (int64, error) {
	return a.queries.GetMatchesStartedCount(ctx, peerIpNet)
}

func (a *AnalyticsManager) GetPeerAnalytics(ctx context.Context, peerIpNet pqtype.Inet) (PeerAnalytic, error) {
	return a.queries.GetPeerAnalytics(ctx, peerIpNet)
}
