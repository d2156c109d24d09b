package models

import "github.com/y-exe/ymkw-top/internal/structures"

// RankingEntry is one row of the upstream ranking, ordered descending by
// Count. The array position defines the rank.
type RankingEntry struct {
	UserID      UserID `json:"user_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	Count       int    `json:"count"`
	CharCount   int    `json:"char_count,omitempty"`
}

// AvgChars returns the average characters per message, 0 when unknown.
func (e RankingEntry) AvgChars() int {
	if e.Count == 0 || e.CharCount <= 0 {
		return 0
	}
	return e.CharCount / e.Count
}

// MyRankEntry is a RankingEntry resolved for the requesting user, with
// the derived fields the rank card displays. It is derived, never
// fetched.
type MyRankEntry struct {
	RankingEntry
	Rank     int `json:"rank"`
	AvgChars int `json:"avg_chars"`
}

// ResolveRank scans the (possibly truncated) ranking window for targetID
// and returns a copy of the matching entry with its 1-based rank. Nil when
// the target is unset, a guest, or outside the window; absence here is not
// an error, inclusion beyond the window is the history source's job.
func ResolveRank(ranking []RankingEntry, targetID string) *MyRankEntry {
	if targetID == "" || targetID == structures.GuestID {
		return nil
	}
	for i, entry := range ranking {
		if SameID(entry.UserID.String(), targetID) {
			return &MyRankEntry{RankingEntry: entry, Rank: i + 1, AvgChars: entry.AvgChars()}
		}
	}
	return nil
}

// TopCount returns the leader's message count, 0 for an empty ranking.
func TopCount(ranking []RankingEntry) int {
	if len(ranking) == 0 {
		return 0
	}
	return ranking[0].Count
}
