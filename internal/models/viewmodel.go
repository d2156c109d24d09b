package models

// ViewModel is the merged aggregate for one dashboard scope, assembled by
// the orchestrator from all settled responses. It is published wholesale
// and never mutated field by field afterwards; a scope change replaces it.
type ViewModel struct {
	Ranking       []RankingEntry   `json:"ranking"`
	Trend         *TrendSeries     `json:"trend"`
	Heatmap       []HeatmapCell    `json:"heatmap"`
	Overall       *AnalysisSummary `json:"overall"`
	Personal      *AnalysisSummary `json:"personal,omitempty"`
	ChannelShares []ChannelShare   `json:"channel_shares"`
	MyRank        *MyRankEntry     `json:"my_rank,omitempty"`
	TopCount      int              `json:"top_count"`
	Snapshot      *Snapshot        `json:"snapshot,omitempty"`
}

// WithTrend returns a copy of the view model carrying a new trend series.
// Used by trend-only refreshes so the published value stays immutable.
func (vm *ViewModel) WithTrend(trend *TrendSeries) *ViewModel {
	next := *vm
	next.Trend = trend
	return &next
}
