package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// table holds a parsed CSV file: a header, the rows that matched it, and
// the count of rows that did not.
type table struct {
	header  []string
	rows    [][]string
	skipped int
}

// col returns the index of a header column, or -1.
func (t *table) col(name string) int {
	for i, h := range t.header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// parseTable reads semicolon-separated CSV content. Rows with a field count
// different from the header, and rows the CSV parser rejects outright, are
// skipped and counted rather than failing the whole file.
func parseTable(content string) (*table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	t := &table{header: header}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line; the reader resumes at the next record.
			t.skipped++
			continue
		}
		if len(record) != len(header) {
			t.skipped++
			continue
		}
		t.rows = append(t.rows, record)
	}
	if t.skipped > 0 {
		log.Printf("dataset: skipped %d malformed rows", t.skipped)
	}
	return t, nil
}

// loadTable reads and parses a CSV file from disk.
func loadTable(path string) (*table, error) {
	content, err := readTextFile(path)
	if err != nil {
		return nil, err
	}
	return parseTable(content)
}
