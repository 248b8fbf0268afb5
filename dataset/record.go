package dataset

import (
	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/labels"
)

// Column names of the raw table, in file order.
const (
	ColSequence        = "sequence"
	ColFamilyAccession = "family_accession"
	ColSequenceName    = "sequence_name"
	ColAlignedSequence = "aligned_sequence"
	ColFamilyID        = "family_id"
	ColClassEncoded    = "class_encoded"
)

// Record is one row of the raw table.
type Record struct {
	Sequence        string `csv:"sequence"`
	FamilyAccession string `csv:"family_accession"`
	SequenceName    string `csv:"sequence_name"`
	AlignedSequence string `csv:"aligned_sequence"`
	FamilyID        string `csv:"family_id"`
}

// Complete reports whether every field is non-empty.
func (r *Record) Complete() bool {
	return r.Sequence != "" &&
		r.FamilyAccession != "" &&
		r.SequenceName != "" &&
		r.AlignedSequence != "" &&
		r.FamilyID != ""
}

// StagedRecord is a Record with its encoded class id appended.
type StagedRecord struct {
	Sequence        string `csv:"sequence"`
	FamilyAccession string `csv:"family_accession"`
	SequenceName    string `csv:"sequence_name"`
	AlignedSequence string `csv:"aligned_sequence"`
	FamilyID        string `csv:"family_id"`
	ClassEncoded    int    `csv:"class_encoded"`
}

// DropIncomplete returns the records with no empty field, preserving order,
// and the number of dropped rows.
func DropIncomplete(records []Record) ([]Record, int) {
	kept := make([]Record, 0, len(records))
	for i := range records {
		if records[i].Complete() {
			kept = append(kept, records[i])
		}
	}
	return kept, len(records) - len(kept)
}

// Accessions returns the family_accession column.
func Accessions(records []Record) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].FamilyAccession
	}
	return out
}

// Encode attaches class ids from enc to records.
func Encode(records []Record, enc *labels.Encoder) ([]StagedRecord, error) {
	out := make([]StagedRecord, len(records))
	for i := range records {
		id, ok := enc.ID(records[i].FamilyAccession)
		if !ok {
			return nil, core.NewInvalidInput("dataset: encode", "row %d has unknown label %q", i, records[i].FamilyAccession)
		}
		r := &records[i]
		out[i] = StagedRecord{
			Sequence:        r.Sequence,
			FamilyAccession: r.FamilyAccession,
			SequenceName:    r.SequenceName,
			AlignedSequence: r.AlignedSequence,
			FamilyID:        r.FamilyID,
			ClassEncoded:    id,
		}
	}
	return out, nil
}

// ClassIDs returns the class_encoded column.
func ClassIDs(records []StagedRecord) []int {
	out := make([]int, len(records))
	for i := range records {
		out[i] = records[i].ClassEncoded
	}
	return out
}

// Select returns rows[idx[0]], rows[idx[1]], ... in idx order.
func Select[T any](rows []T, idx []int) ([]T, error) {
	out := make([]T, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(rows) {
			return nil, core.NewInvalidInput("dataset: select", "index %d out of range [0, %d)", j, len(rows))
		}
		out[i] = rows[j]
	}
	return out, nil
}
