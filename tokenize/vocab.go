package tokenize

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/pfamprep/core"
)

// Special tokens every vocabulary must define.
const (
	ClsToken  = "<cls>"
	PadToken  = "<pad>"
	EosToken  = "<eos>"
	UnkToken  = "<unk>"
	MaskToken = "<mask>"
)

// esm2Tokens is the vocabulary of the ESM-2 family, in id order.
var esm2Tokens = []string{
	"<cls>", "<pad>", "<eos>", "<unk>",
	"L", "A", "G", "V", "S", "E", "R", "T", "I", "D", "P", "K",
	"Q", "N", "F", "Y", "M", "H", "W", "C", "X", "B", "U", "Z",
	"O", ".", "-", "<null_1>", "<mask>",
}

// Vocabulary maps tokens to ids.
type Vocabulary struct {
	tokens  []string
	index   map[string]int
	special []string // multi-character tokens, longest first

	cls, pad, eos, unk int
}

// ESM2 returns the built-in ESM-2 vocabulary.
func ESM2() *Vocabulary {
	v, err := NewVocabulary(esm2Tokens)
	if err != nil {
		panic(err)
	}
	return v
}

// NewVocabulary builds a Vocabulary whose id i is tokens[i].
func NewVocabulary(tokens []string) (*Vocabulary, error) {
	v := &Vocabulary{
		tokens: append([]string(nil), tokens...),
		index:  make(map[string]int, len(tokens)),
	}
	for i, t := range v.tokens {
		if t == "" {
			return nil, core.NewInvalidInput("tokenize: vocabulary", "token %d is empty", i)
		}
		if _, dup := v.index[t]; dup {
			return nil, core.NewInvalidInput("tokenize: vocabulary", "token %q listed twice", t)
		}
		v.index[t] = i
		if len(t) > 1 {
			v.special = append(v.special, t)
		}
	}

	for _, req := range []struct {
		tok string
		dst *int
	}{{ClsToken, &v.cls}, {PadToken, &v.pad}, {EosToken, &v.eos}, {UnkToken, &v.unk}} {
		id, ok := v.index[req.tok]
		if !ok {
			return nil, core.NewInvalidInput("tokenize: vocabulary", "missing special token %s", req.tok)
		}
		*req.dst = id
	}

	// Longest match wins when special tokens share a prefix.
	for i := 1; i < len(v.special); i++ {
		for j := i; j > 0 && len(v.special[j]) > len(v.special[j-1]); j-- {
			v.special[j], v.special[j-1] = v.special[j-1], v.special[j]
		}
	}
	return v, nil
}

// LoadVocab reads a vocab.txt file with one token per line.
func LoadVocab(r io.Reader) (*Vocabulary, error) {
	var tokens []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		tok := strings.TrimRight(sc.Text(), "\r")
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tokenize: read vocab: %w", err)
	}
	return NewVocabulary(tokens)
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// ID returns the id of tok.
func (v *Vocabulary) ID(tok string) (int, bool) {
	id, ok := v.index[tok]
	return id, ok
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id < 0 || id >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

func (v *Vocabulary) PadID() int { return v.pad }
func (v *Vocabulary) ClsID() int { return v.cls }
func (v *Vocabulary) EosID() int { return v.eos }
func (v *Vocabulary) UnkID() int { return v.unk }

// WriteTo writes the vocabulary in vocab.txt format.
func (v *Vocabulary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, t := range v.tokens {
		m, err := bw.WriteString(t + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
