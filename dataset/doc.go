// Package dataset holds the row model of the Pfam tables and the CSV
// plumbing around it.
//
// Raw shards are headerless with the columns of Record in declaration
// order. Staged tables carry a header row and append class_encoded.
// Curated tables are read and written as a generic Table because their
// token columns depend on the tokenized length.
package dataset
