package models

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// TrendPoint is one calendar day of the trend chart. The upstream payload
// mixes fixed keys ("date", "total") with one numeric key per charted
// user, so decoding goes through a generic map.
type TrendPoint struct {
	Date   string
	Total  int
	Counts map[string]int
}

func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Counts = make(map[string]int, len(raw))
	for key, val := range raw {
		switch key {
		case "date":
			p.Date = cast.ToString(val)
		case "total":
			p.Total = cast.ToInt(val)
		default:
			p.Counts[key] = cast.ToInt(val)
		}
	}
	return nil
}

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	raw := make(map[string]interface{}, len(p.Counts)+2)
	raw["date"] = p.Date
	raw["total"] = p.Total
	for uid, count := range p.Counts {
		raw[uid] = count
	}
	return json.Marshal(raw)
}

// TrendUser is the display info for one charted participant.
type TrendUser struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// TrendSeries is the daily message-volume chart payload: one point per
// day in range, dates strictly ascending (missing days are zero-filled
// upstream, never here).
type TrendSeries struct {
	Points    []TrendPoint         `json:"chart_data"`
	Users     map[string]TrendUser `json:"users"`
	TopUserID string               `json:"top_user_id"`
}

func (s *TrendSeries) IsEmpty() bool {
	return s == nil || len(s.Points) == 0
}

// ParticipantIDs lists the charted user ids in no particular order.
func (s *TrendSeries) ParticipantIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Users))
	for uid := range s.Users {
		ids = append(ids, uid)
	}
	return ids
}
