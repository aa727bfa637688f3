package club

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "evening kickoff",
			input:    "03.11.2024 20:00",
			expected: time.Date(2024, 11, 3, 20, 0, 0, 0, Prague),
			ok:       true,
		},
		{
			name:     "summer time",
			input:    "12.08.2023 18:00",
			expected: time.Date(2023, 8, 12, 18, 0, 0, 0, Prague),
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			input:    "  01.02.2025 09:30 ",
			expected: time.Date(2025, 2, 1, 9, 30, 0, 0, Prague),
			ok:       true,
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name:  "date only",
			input: "03.11.2024",
		},
		{
			name:  "iso format",
			input: "2024-11-03T20:00:00Z",
		},
		{
			name:  "impossible day",
			input: "32.01.2024 10:00",
		},
		{
			name:  "garbage",
			input: "TBD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMatchTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.True(t, got.IsZero())
				return
			}
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestParseMatchTime_IsCivilPragueTime(t *testing.T) {
	// 20:00 in Prague during CET is 19:00 UTC, during CEST 18:00 UTC.
	winter, ok := ParseMatchTime("03.11.2024 20:00")
	require.True(t, ok)
	assert.Equal(t, 19, winter.UTC().Hour())

	summer, ok := ParseMatchTime("03.07.2024 20:00")
	require.True(t, ok)
	assert.Equal(t, 18, summer.UTC().Hour())
}

func TestMatchTokens(t *testing.T) {
	m := Match{DateTime: "03.11.2024 20:00"}
	assert.Equal(t, "03.11.2024", m.DateToken())
	assert.Equal(t, "20:00", m.TimeToken())

	m = Match{DateTime: "03.11.2024"}
	assert.Equal(t, "03.11.2024", m.DateToken())
	assert.Equal(t, "", m.TimeToken())
}

func TestMatch_UnmarshalKeepsRawDateTime(t *testing.T) {
	payload := `{"date_time":"03.11.2024 20:00","home":"FC Bizoni UH","away":"Sparta","score":"4:2"}`

	var m Match
	require.NoError(t, json.Unmarshal([]byte(payload), &m))
	assert.Equal(t, "03.11.2024 20:00", m.DateTime)

	start, ok := m.Start()
	require.True(t, ok)
	assert.Equal(t, 20, start.Hour())
}
