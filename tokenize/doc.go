// Package tokenize implements the character-level ESM-2 protein tokenizer
// used to build the curated table.
//
//	tok, _ := tokenize.New(tokenize.WithMaxLength(1024))
//	ids := tok.EncodeBatch([]string{"MKVL", "MRL"})
//	// [[0 20 15 7 4 2] [0 20 10 4 2 1]]
package tokenize
