// Package encoding decodes imported ledger files to UTF-8. Shopkeepers'
// spreadsheet exports arrive in whatever encoding the tool of the day used,
// so the reader sniffs before parsing.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

// byCharset maps chardet results to decoders. Charsets that are already
// UTF-8 compatible map to nil.
var byCharset = map[string]encoding.Encoding{
	"UTF-8":        nil,
	"ISO-8859-1":   charmap.Windows1252, // superset, safe for the control range
	"windows-1252": charmap.Windows1252,
}

// UTF8Reader wraps r so that reads yield UTF-8 text.
//
// A BOM wins outright; next, valid UTF-8 passes through untouched; otherwise
// chardet guesses, and anything unrecognized falls back to Windows-1252.
func UTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniffing input: %w", err)
	}

	if dec, skip := bomDecoder(head); skip > 0 || dec != nil {
		if skip > 0 {
			_, _ = br.Discard(skip)
		}

		if dec == nil {
			return br, nil
		}

		return transform.NewReader(br, dec.NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if best, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if dec, known := byCharset[best.Charset]; known {
			if dec == nil {
				return br, nil
			}

			return transform.NewReader(br, dec.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// bomDecoder reports the decoder and BOM length for a recognized byte order
// mark, or (nil, 0).
func bomDecoder(head []byte) (encoding.Encoding, int) {
	switch {
	case bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}):
		return nil, 3 // UTF-8 BOM: strip and pass through
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), 0
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), 0
	}

	return nil, 0
}
