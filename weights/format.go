package weights

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/pfamprep/core"
)

// FileName is the blob name of the persisted weight table.
const FileName = "class_weights.txt"

// WriteTo writes one "{id}: {weight}" line per id in ascending id order.
func (t Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for id, v := range t {
		m, err := fmt.Fprintf(bw, "%d: %s\n", id, formatWeight(v))
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// formatWeight renders v as the shortest decimal that round-trips, keeping
// a ".0" suffix on integral values ("0.0", "1.0").
func formatWeight(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// Parse reads a table written by WriteTo. Ids must be contiguous from 0.
func Parse(r io.Reader) (Table, error) {
	const op = "weights: parse"

	var t Table
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		idText, wText, ok := strings.Cut(text, ":")
		if !ok {
			return nil, core.NewInvalidInput(op, "line %d: missing separator", line)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idText))
		if err != nil {
			return nil, core.WrapInvalidInput(op, fmt.Errorf("line %d: %w", line, err))
		}
		if id != len(t) {
			return nil, core.NewInvalidInput(op, "line %d: id %d out of order", line, id)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(wText), 64)
		if err != nil {
			return nil, core.WrapInvalidInput(op, fmt.Errorf("line %d: %w", line, err))
		}
		if v < 0 {
			return nil, core.NewInvalidInput(op, "line %d: negative weight %v", line, v)
		}
		t = append(t, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
