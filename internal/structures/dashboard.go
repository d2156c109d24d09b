package structures

import "net/http"

type Route struct {
	Url     string
	Handler http.Handler
}

// GuestID is the sentinel carried by unidentified viewers.
const GuestID = "guest"

// Session carries the requester identity resolved by the caller
// (cookie or equivalent). The engine never reads ambient state.
type Session struct {
	UserID string
}

func (s Session) IsGuest() bool {
	return s.UserID == "" || s.UserID == GuestID
}

// Scope identifies one dashboard view: a calendar month or an immutable
// snapshot, an optional channel filter and the requester. Immutable once
// built; a new Scope supersedes all fetch state derived from the old one.
type Scope struct {
	Year  int
	Month int

	SnapshotID int
	// EndDate is the snapshot cutoff resolved from snapshot metadata.
	// Empty until the orchestrator fetches it.
	EndDate string

	ChannelID string
	Requester Session
}

func (s Scope) IsSnapshot() bool {
	return s.SnapshotID > 0
}

func (s Scope) WithEndDate(endDate string) Scope {
	s.EndDate = endDate
	return s
}
