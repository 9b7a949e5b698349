package displayid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opal-lang/b58/displayid"
)

func TestParse(t *testing.T) {
	ns, kind, encoded, err := displayid.Parse("opal:s:QLhtUkLczFq")
	require.NoError(t, err)

	assert.Equal(t, "opal", ns)
	assert.Equal(t, "s", kind)
	assert.Equal(t, "QLhtUkLczFq", encoded)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantMsg string
	}{
		{"empty", "", "has 1 fields"},
		{"two fields", "opal:QLhtUkLczFq", "has 2 fields"},
		{"four fields", "opal:s:x:QLhtUkLczFq", "has 4 fields"},
		{"empty namespace", ":s:QLht", "empty namespace"},
		{"empty kind", "opal::QLht", "empty kind"},
		{"empty encoded", "opal:s:", "empty encoded part"},
		{"zero digit", "opal:s:QLh0", "invalid base58 character '0' at offset 3"},
		{"capital O", "opal:s:OLht", "invalid base58 character 'O' at offset 0"},
		{"capital I", "opal:s:QIht", "invalid base58 character 'I'"},
		{"lowercase l", "opal:s:Qlht", "invalid base58 character 'l'"},
		{"too long", "opal:s:1111111111111", "longer than 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := displayid.Parse(tt.id)
			require.Error(t, err)
			assert.ErrorIs(t, err, displayid.ErrMalformed)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
