package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameID_StringVsNumericRepresentation(t *testing.T) {
	assert.True(t, SameID("42", "42"))
	assert.True(t, SameID(" 42", "42 "))
	assert.True(t, SameID("042", "42"))
	assert.False(t, SameID("42", "43"))
	assert.True(t, SameID("alice", "alice"))
	assert.False(t, SameID("alice", "Alice"))
}

func TestSameID_EmptyNeverMatches(t *testing.T) {
	assert.False(t, SameID("", ""))
	assert.False(t, SameID("", "42"))
	assert.False(t, SameID("42", ""))
}

func TestCanonicalID_Zero(t *testing.T) {
	assert.Equal(t, "0", CanonicalID("0"))
	assert.Equal(t, "0", CanonicalID("000"))
}

func TestUserID_UnmarshalString(t *testing.T) {
	var id UserID
	require.NoError(t, json.Unmarshal([]byte(`"1234"`), &id))
	assert.Equal(t, "1234", id.String())
}

func TestUserID_UnmarshalNumber(t *testing.T) {
	var id UserID
	require.NoError(t, json.Unmarshal([]byte(`823746923847`), &id))
	assert.Equal(t, "823746923847", id.String())
}

func TestUserID_UnmarshalNull(t *testing.T) {
	var id UserID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, "", id.String())
}
