package models

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// UserID tolerates upstream payloads that carry ids as JSON numbers
// instead of strings. Internally ids are always strings.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = UserID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

func (id UserID) String() string {
	return string(id)
}

// CanonicalID strips the representation differences observed between the
// ranking and identity sources: surrounding space and, for numeric ids,
// leading zeros.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		if trimmed := strings.TrimLeft(id, "0"); trimmed != "" {
			return trimmed
		}
		return "0"
	}
	return id
}

// SameID is the single identity-equality helper used everywhere a user id
// from one source is compared against one from another.
func SameID(a, b string) bool {
	ca, cb := CanonicalID(a), CanonicalID(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb
}
