package models

import "time"

// Snapshot is an immutable historical marker. The upstream list arrives
// newest first.
type Snapshot struct {
	SnapshotID int       `json:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at"`
	Title      string    `json:"title"`
}

// ChannelShare is one slice of the channel distribution chart.
type ChannelShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Channel is one entry of the sidebar channel filter.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// UserSummary is one user-search hit, shared by the identity selector and
// the trend focus search.
type UserSummary struct {
	UserID      UserID `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
}
