package models

import "sort"

// LineTier is the emphasis classification of one trend line. Higher tiers
// win the classification and are drawn above lower ones; generic lines sit
// at the bottom so emphasized lines are never occluded.
type LineTier int

const (
	TierGeneric LineTier = iota
	TierTopRank
	TierFocused
	TierSelf
)

func (t LineTier) String() string {
	switch t {
	case TierSelf:
		return "self"
	case TierFocused:
		return "focused"
	case TierTopRank:
		return "topRank"
	default:
		return "generic"
	}
}

// DrawOrder is the z ordering of the tier, bottom layer first.
func (t LineTier) DrawOrder() int {
	switch t {
	case TierSelf:
		return 100
	case TierFocused:
		return 90
	case TierTopRank:
		return 50
	default:
		return 10
	}
}

// ClassifyLine assigns a series its style tier. Priority is fixed:
// self beats focused beats the source's rank-1 id beats everything else.
func ClassifyLine(seriesID, selfID, focusedID, topUserID string) LineTier {
	switch {
	case SameID(seriesID, selfID):
		return TierSelf
	case SameID(seriesID, focusedID):
		return TierFocused
	case SameID(seriesID, topUserID):
		return TierTopRank
	default:
		return TierGeneric
	}
}

// TooltipEntry is one row of the hover tooltip at a given point.
type TooltipEntry struct {
	UserID string   `json:"user_id"`
	Count  int      `json:"count"`
	Tier   LineTier `json:"-"`
}

const tooltipTopN = 3

// TooltipEntries picks the series to show at one point: the top 3 by
// value, plus the viewer's own and the focused series when either is not
// already among them. Ties keep the smaller id first so output is stable.
func TooltipEntries(point TrendPoint, selfID, focusedID, topUserID string) []TooltipEntry {
	all := make([]TooltipEntry, 0, len(point.Counts))
	for uid, count := range point.Counts {
		all = append(all, TooltipEntry{
			UserID: uid,
			Count:  count,
			Tier:   ClassifyLine(uid, selfID, focusedID, topUserID),
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].UserID < all[j].UserID
	})

	cut := min(tooltipTopN, len(all))
	shown := append([]TooltipEntry(nil), all[:cut]...)
	for _, extra := range all[cut:] {
		if extra.Tier == TierSelf || extra.Tier == TierFocused {
			shown = append(shown, extra)
		}
	}
	return shown
}
