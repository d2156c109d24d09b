package models

// AnalysisSummary is the overall or personal activity summary. A summary
// with Total 0 is "empty", which is distinct from the field being absent
// (fetch withheld or failed) in the view model.
type AnalysisSummary struct {
	Total   int        `json:"total"`
	MaxDate *DateCount `json:"max_date,omitempty"`
	MaxDow  *DowCount  `json:"max_dow,omitempty"`
	MaxHour *HourCount `json:"max_hour,omitempty"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DowCount struct {
	Dow   int `json:"dow"`
	Count int `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

func (a *AnalysisSummary) IsEmpty() bool {
	return a == nil || a.Total == 0
}
