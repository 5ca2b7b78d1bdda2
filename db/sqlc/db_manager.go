package sqlc

import "time"

// QuerierCtxTimeout bounds every analytics query a peer issues. Match
// traffic never waits on it longer than that.
const QuerierCtxTimeout = time.Second * 10

// DbManager groups the stores a peer uses. Analytics is the only one: match
// state itself is never persisted.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
	}
}

// NewPeerDbManager builds the manager straight from a connection pool or
// transaction.
func NewPeerDbManager(db DBTX) DbManager {
	return NewDbManager(New(db))
}
