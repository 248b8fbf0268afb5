// Package labels maps raw class labels to dense integer ids.
//
// Ids are assigned in sorted label order, so the encoding depends only on
// the set of labels and never on row order. The same Encoder must be used
// for the class_encoded column and for the class-weight table.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/pfamprep/core"
)

// MappingName is the blob name of the persisted mapping.
const MappingName = "label_mapping.txt"

// Encoder is a fitted label dictionary.
type Encoder struct {
	classes []string
	index   map[string]int
}

// Fit builds an Encoder over the distinct values of raw.
func Fit(raw []string) (*Encoder, error) {
	seen := make(map[string]struct{}, 1024)
	for row, l := range raw {
		if l == "" {
			return nil, core.NewInvalidInput("labels: fit", "row %d has an empty label", row)
		}
		seen[l] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for l := range seen {
		classes = append(classes, l)
	}
	slices.Sort(classes)

	return FromClasses(classes)
}

// FromClasses builds an Encoder whose id i is classes[i].
func FromClasses(classes []string) (*Encoder, error) {
	e := &Encoder{
		classes: classes,
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		if c == "" {
			return nil, core.NewInvalidInput("labels: encoder", "class %d is empty", i)
		}
		if _, dup := e.index[c]; dup {
			return nil, core.NewInvalidInput("labels: encoder", "class %q listed twice", c)
		}
		e.index[c] = i
	}
	return e, nil
}

// Len returns the number of known classes.
func (e *Encoder) Len() int { return len(e.classes) }

// MaxID returns the largest assigned id, or -1 for an empty encoder.
func (e *Encoder) MaxID() int { return len(e.classes) - 1 }

// Classes returns the labels in id order.
func (e *Encoder) Classes() []string { return slices.Clone(e.classes) }

// ID returns the id of label.
func (e *Encoder) ID(label string) (int, bool) {
	id, ok := e.index[label]
	return id, ok
}

// Label returns the label of id.
func (e *Encoder) Label(id int) (string, bool) {
	if id < 0 || id >= len(e.classes) {
		return "", false
	}
	return e.classes[id], true
}

// Transform encodes raw. Unknown labels are invalid input.
func (e *Encoder) Transform(raw []string) ([]int, error) {
	ids := make([]int, len(raw))
	for row, l := range raw {
		id, ok := e.index[l]
		if !ok {
			return nil, core.NewInvalidInput("labels: transform", "row %d has unknown label %q", row, l)
		}
		ids[row] = id
	}
	return ids, nil
}

// WriteTo writes the mapping as "{label}: {id}" lines in id order.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for id, c := range e.classes {
		m, err := fmt.Fprintf(bw, "%s: %d\n", c, id)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ReadMapping parses the output of WriteTo. Ids must be 0..n-1 in order.
func ReadMapping(r io.Reader) (*Encoder, error) {
	const op = "labels: read mapping"

	var classes []string
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		i := strings.LastIndex(text, ": ")
		if i < 0 {
			return nil, core.NewInvalidInput(op, "line %d: missing separator", line)
		}
		id, err := strconv.Atoi(text[i+2:])
		if err != nil {
			return nil, core.WrapInvalidInput(op, fmt.Errorf("line %d: %w", line, err))
		}
		if id != len(classes) {
			return nil, core.NewInvalidInput(op, "line %d: id %d out of order", line, id)
		}
		classes = append(classes, text[:i])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return FromClasses(classes)
}
