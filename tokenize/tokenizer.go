package tokenize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/pfamprep/core"
)

// DefaultMaxLength is the ESM-2 context size.
const DefaultMaxLength = 1024

// Padding selects the padded width of a batch.
type Padding int

const (
	// PadLongest pads every row to the longest row of the batch.
	PadLongest Padding = iota
	// PadMaxLength pads every row to the maximum length.
	PadMaxLength
)

func (p Padding) String() string {
	switch p {
	case PadLongest:
		return "longest"
	case PadMaxLength:
		return "max_length"
	default:
		return "Padding(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePadding parses "longest" or "max_length".
func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(s) {
	case "", "longest":
		return PadLongest, nil
	case "max_length", "max-length":
		return PadMaxLength, nil
	default:
		return 0, core.NewConfigurationError("padding", s, nil)
	}
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxLength sets the truncation length, special tokens included.
func WithMaxLength(n int) Option {
	return func(t *Tokenizer) {
		t.maxLength = n
	}
}

// WithPadding sets the padding mode.
func WithPadding(p Padding) Option {
	return func(t *Tokenizer) {
		t.padding = p
	}
}

// WithVocabulary replaces the built-in ESM-2 vocabulary.
func WithVocabulary(v *Vocabulary) Option {
	return func(t *Tokenizer) {
		t.vocab = v
	}
}

// Tokenizer turns protein sequences into token ids.
// It is safe for concurrent use.
type Tokenizer struct {
	vocab     *Vocabulary
	maxLength int
	padding   Padding
}

// New creates a Tokenizer.
func New(optFns ...Option) (*Tokenizer, error) {
	t := &Tokenizer{
		maxLength: DefaultMaxLength,
		padding:   PadLongest,
	}
	for _, fn := range optFns {
		fn(t)
	}
	if t.vocab == nil {
		t.vocab = ESM2()
	}
	if t.maxLength < 2 {
		return nil, core.NewConfigurationError("max_length", strconv.Itoa(t.maxLength), fmt.Errorf("must hold <cls> and <eos>"))
	}
	if t.padding != PadLongest && t.padding != PadMaxLength {
		return nil, core.NewConfigurationError("padding", t.padding.String(), nil)
	}
	return t, nil
}

// Vocabulary returns the tokenizer vocabulary.
func (t *Tokenizer) Vocabulary() *Vocabulary { return t.vocab }

// MaxLength returns the truncation length.
func (t *Tokenizer) MaxLength() int { return t.maxLength }

// Tokens splits seq into vocabulary tokens. Whitespace separates words,
// multi-character tokens such as <mask> are matched literally, and each
// maximal run of characters outside the vocabulary becomes one <unk>.
func (t *Tokenizer) Tokens(seq string) []int {
	v := t.vocab
	ids := make([]int, 0, len(seq))
	inUnk := false

	for i := 0; i < len(seq); {
		if seq[i] == '<' {
			if tok, ok := v.matchSpecial(seq[i:]); ok {
				ids = append(ids, v.index[tok])
				i += len(tok)
				inUnk = false
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(seq[i:])
		i += size
		if unicode.IsSpace(r) {
			inUnk = false
			continue
		}
		if id, ok := v.index[seq[i-size:i]]; ok {
			ids = append(ids, id)
			inUnk = false
			continue
		}
		if !inUnk {
			ids = append(ids, v.unk)
			inUnk = true
		}
	}
	return ids
}

func (v *Vocabulary) matchSpecial(s string) (string, bool) {
	for _, tok := range v.special {
		if strings.HasPrefix(s, tok) {
			return tok, true
		}
	}
	return "", false
}

// Encode returns <cls> + tokens + <eos>, truncated to MaxLength with <eos>
// kept as the last id. The result is not padded.
func (t *Tokenizer) Encode(seq string) []int {
	body := t.Tokens(seq)
	if len(body) > t.maxLength-2 {
		body = body[:t.maxLength-2]
	}
	ids := make([]int, 0, len(body)+2)
	ids = append(ids, t.vocab.cls)
	ids = append(ids, body...)
	return append(ids, t.vocab.eos)
}

// EncodeBatch encodes seqs and pads every row with <pad> on the right.
func (t *Tokenizer) EncodeBatch(seqs []string) [][]int {
	rows := make([][]int, len(seqs))
	width := 0
	for i, s := range seqs {
		rows[i] = t.Encode(s)
		width = max(width, len(rows[i]))
	}
	if t.padding == PadMaxLength {
		width = t.maxLength
	}
	for i, r := range rows {
		for len(r) < width {
			r = append(r, t.vocab.pad)
		}
		rows[i] = r
	}
	return rows
}

// Columns returns the names token_0 .. token_{width-1}.
func Columns(width int) []string {
	cols := make([]string, width)
	for i := range cols {
		cols[i] = "token_" + strconv.Itoa(i)
	}
	return cols
}

// Decode maps ids back to tokens, skipping padding.
func (t *Tokenizer) Decode(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == t.vocab.pad {
			continue
		}
		if tok, ok := t.vocab.Token(id); ok {
			out = append(out, tok)
		}
	}
	return out
}
