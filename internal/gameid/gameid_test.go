package gameid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("0", Length), Encode(uuid.Nil))
	var ones uuid.UUID
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), Encode(ones))
}

func TestNewIsValidAndOrdered(t *testing.T) {
	t.Parallel()

	prev := New()
	require.NoError(t, Validate(prev))
	for range 100 {
		id := New()
		require.Len(t, id, Length)
		require.NoError(t, Validate(id))
		require.Greater(t, id, prev, "ids sort in creation order")
		prev = id
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	u := uuid.Must(uuid.NewV7())
	got, err := Parse(Encode(u))
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Equal(t, uuid.Version(7), got.Version())
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"short":          "01h455vb4pex5vsknk084sn02",
		"long":           "01h455vb4pex5vsknk084sn02qq",
		"too large":      "81h455vb4pex5vsknk084sn02q",
		"upper case":     "01H455VB4PEX5VSKNK084SN02Q",
		"excluded glyph": "01h455vb4pex5vsknk084sn0iq",
		"path":           "../../../../etc/passwd0000",
	}
	for name, id := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, Validate(id))
		})
	}
	assert.NoError(t, Validate("01h455vb4pex5vsknk084sn02q"))
}
