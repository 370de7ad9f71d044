package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotPayload(t *testing.T) {
	payload, ok := ParseSlotPayload("mdsende('a','b','06-12-2025;2;9;18:00;19:00')")
	require.True(t, ok)
	assert.Equal(t, "2025-12-06", payload.Date)
	assert.Equal(t, "9", payload.CourtNum)
	assert.Equal(t, "18:00", payload.Start)
	assert.Equal(t, "19:00", payload.End)
}

func TestParseSlotPayloadExtraFields(t *testing.T) {
	payload, ok := ParseSlotPayload("mdsende('a','b','06-12-2025;2;9;18:00;19:00;extra;fields')")
	require.True(t, ok)
	assert.Equal(t, "9", payload.CourtNum)
	assert.Equal(t, "19:00", payload.End)
}

func TestParseSlotPayloadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		onclick string
	}{
		{"empty", ""},
		{"no quoted args", "mdsende(1,2,3)"},
		{"two quoted args", "mdsende('a','b')"},
		{"too few payload fields", "mdsende('a','b','06-12-2025;2;9')"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseSlotPayload(tt.onclick)
			assert.False(t, ok)
		})
	}
}

func TestParseSlotPayloadNonDatePassthrough(t *testing.T) {
	// A first field that is not DD-MM-YYYY is kept verbatim.
	payload, ok := ParseSlotPayload("mdsende('a','b','special;2;9;18:00;19:00')")
	require.True(t, ok)
	assert.Equal(t, "special", payload.Date)
}

func TestParseCourtMap(t *testing.T) {
	m := ParseCourtMap("9:Court11, 10:Court12 ,,:skipme")
	assert.Equal(t, CourtMap{"9": "Court11", "10": "Court12"}, m)

	assert.Empty(t, ParseCourtMap(""))
}

func TestCourtMapResolve(t *testing.T) {
	m := CourtMap{"9": "Court11"}
	assert.Equal(t, "Court11", m.Resolve("9"))
	assert.Equal(t, "court-10", m.Resolve("10"))
}

func TestCourtMapNumberFor(t *testing.T) {
	m := CourtMap{"9": "Court11"}

	num, ok := m.NumberFor("Court11")
	require.True(t, ok)
	assert.Equal(t, "9", num)

	// A raw number is accepted directly.
	num, ok = m.NumberFor("9")
	require.True(t, ok)
	assert.Equal(t, "9", num)

	_, ok = m.NumberFor("Court99")
	assert.False(t, ok)
}

func TestCourtMapBootstrap(t *testing.T) {
	assert.True(t, CourtMap{}.Bootstrap())
	assert.False(t, CourtMap{"9": "Court11"}.Bootstrap())
}
