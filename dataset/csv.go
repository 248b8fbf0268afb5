package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gocarina/gocsv"
)

// ReadShard decodes a headerless raw shard.
func ReadShard(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.UnmarshalWithoutHeaders(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("dataset: read shard: %w", err)
	}
	return records, nil
}

// ReadRecords decodes a raw table with a header row.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("dataset: read records: %w", err)
	}
	return records, nil
}

// WriteRecords encodes records with a header row.
func WriteRecords(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return writeHeader(w, RecordColumns())
	}
	return gocsv.Marshal(records, w)
}

// ReadStaged decodes a staged table.
func ReadStaged(r io.Reader) ([]StagedRecord, error) {
	var records []StagedRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []StagedRecord{}, nil
		}
		return nil, fmt.Errorf("dataset: read staged: %w", err)
	}
	return records, nil
}

// WriteStaged encodes a staged table with a header row.
func WriteStaged(w io.Writer, records []StagedRecord) error {
	if len(records) == 0 {
		return writeHeader(w, StagedColumns())
	}
	return gocsv.Marshal(records, w)
}

// RecordColumns returns the raw header.
func RecordColumns() []string {
	return []string{ColSequence, ColFamilyAccession, ColSequenceName, ColAlignedSequence, ColFamilyID}
}

// StagedColumns returns the staged header.
func StagedColumns() []string {
	return append(RecordColumns(), ColClassEncoded)
}

func writeHeader(w io.Writer, header []string) error {
	cw := gocsv.DefaultCSVWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Table is a CSV table with arbitrary columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i := slices.Index(t.Header, name)
	return i, i >= 0
}

// ReadTable decodes a CSV table whose first row is the header.
func ReadTable(r io.Reader) (*Table, error) {
	cr := gocsv.DefaultCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset: read table: %w", gocsv.ErrEmptyCSVFile)
		}
		return nil, fmt.Errorf("dataset: read table: %w", err)
	}

	t := &Table{Header: header}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read table: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
}

// WriteTable encodes t with its header row.
func WriteTable(w io.Writer, t *Table) error {
	cw := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
