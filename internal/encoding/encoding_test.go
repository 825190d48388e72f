package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credikhaata/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestUTF8Reader_PlainUTF8(t *testing.T) {
	assert.Equal(t, "Name,Phone\nRajesh,98765\n", decode(t, []byte("Name,Phone\nRajesh,98765\n")))
}

func TestUTF8Reader_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Name\nPriya\n")...)
	assert.Equal(t, "Name\nPriya\n", decode(t, input))
}

func TestUTF8Reader_UTF16LE(t *testing.T) {
	// "Name" with a little-endian BOM.
	input := []byte{0xFF, 0xFE, 'N', 0, 'a', 0, 'm', 0, 'e', 0}
	assert.Equal(t, "Name", decode(t, input))
}

func TestUTF8Reader_UTF16BE(t *testing.T) {
	input := []byte{0xFE, 0xFF, 0, 'N', 0, 'a', 0, 'm', 0, 'e'}
	assert.Equal(t, "Name", decode(t, input))
}

func TestUTF8Reader_Windows1252Fallback(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid as standalone UTF-8.
	input := []byte{'R', 0xE9, 'n', 'u'}
	assert.Equal(t, "Rénu", decode(t, input))
}

func TestUTF8Reader_EmptyInput(t *testing.T) {
	assert.Equal(t, "", decode(t, nil))
}
