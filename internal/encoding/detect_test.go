package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/chama/internal/encoding"
)

const roster = "firstName,lastName,position,phoneNumber\nJosé,Mwangi,Member,0712345678\nRenée,Akinyi,Secretary,0722000111\n"

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().String(roster)
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(roster)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "UTF8Passthrough", input: []byte(roster)},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, roster...)},
		{name: "UTF16LE", input: []byte(utf16le)},
		{name: "Windows1252", input: []byte(latin1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, roster, decode(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_RuneSplitAtSniffWindow(t *testing.T) {
	// "é" straddles the 4096-byte peek boundary.
	input := strings.Repeat("a", 4095) + "é tail"

	assert.Equal(t, input, decode(t, []byte(input)))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Empty(t, decode(t, nil))
}
