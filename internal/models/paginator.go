package models

const (
	podiumSize   = 3
	displayLimit = 15
)

// RankingTiers is the three reveal tiers of the ranking display: the
// podium (ranks 1-3), the always-visible list (4-15) and the overflow
// hidden behind an on-demand reveal.
type RankingTiers struct {
	Podium   []RankingEntry `json:"podium"`
	List     []RankingEntry `json:"list"`
	Overflow []RankingEntry `json:"overflow"`

	full []RankingEntry
}

// PaginateRanking splits a ranked list into tiers. Undersized input just
// yields shorter tiers, never padding.
func PaginateRanking(ranking []RankingEntry) RankingTiers {
	tiers := RankingTiers{full: ranking}
	tiers.Podium = ranking[:min(podiumSize, len(ranking))]
	if len(ranking) > podiumSize {
		tiers.List = ranking[podiumSize:min(displayLimit, len(ranking))]
	}
	if len(ranking) > displayLimit {
		tiers.Overflow = ranking[displayLimit:]
	}
	return tiers
}

// Full returns the entire original ranking for the overflow reveal, so
// absolute rank numbers stay consistent with the tiered view.
func (t RankingTiers) Full() []RankingEntry {
	return t.full
}

// OverflowCount is the number of entries hidden behind the reveal.
func (t RankingTiers) OverflowCount() int {
	return len(t.Overflow)
}
