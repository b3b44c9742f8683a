package schemas

import "time"

// SnapshotInfo is the listing view of a persisted snapshot: identity, label,
// creation time and the counts cached at save time. The serialized payload is
// not carried here so listings stay cheap.
type SnapshotInfo struct {
	ID           int64     `json:"id"`
	Label        string    `json:"label"`
	CreatedAt    time.Time `json:"created_at"`
	NodeCount    int       `json:"node_count"`
	EdgeCount    int       `json:"edge_count"`
	SymbolsCount int       `json:"symbols_count"`
}
