package model

import "time"

// SavedSearch is one persisted aggregate response, stored as opaque JSON next
// to the query that produced it.
type SavedSearch struct {
	ID          string
	Location    string
	Category    string
	ResultCount int
	Response    []byte
	CreatedAt   time.Time
}
