// Package dataset imports the Book-Crossing CSV files into the store.
//
// The published dataset is semicolon-separated, mixes UTF-8 and Latin-1
// encodings across files, and contains a handful of malformed lines. The
// reader decodes whichever encoding a file actually uses and skips rows it
// cannot parse, counting them.
package dataset

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns data as a string, decoding UTF-8 when the bytes are valid
// UTF-8 and Latin-1 otherwise. Latin-1 accepts any byte sequence, so decode
// never fails.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("dataset: latin-1 decode: %w", err)
	}
	return string(decoded), nil
}

// readTextFile reads path and decodes its contents.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return decode(data)
}

// Norm lowercases and trims a string for matching and grouping.
func Norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
