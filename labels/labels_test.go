package labels

import (
	"bytes"
	"testing"

	"github.com/hupe1980/pfamprep/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_SortedOrder(t *testing.T) {
	enc, err := Fit([]string{"PF00002.1", "PF00001.3", "PF00002.1", "PF00010.9"})
	require.NoError(t, err)

	assert.Equal(t, 3, enc.Len())
	assert.Equal(t, 2, enc.MaxID())
	assert.Equal(t, []string{"PF00001.3", "PF00002.1", "PF00010.9"}, enc.Classes())

	ids, err := enc.Transform([]string{"PF00010.9", "PF00001.3", "PF00002.1"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, ids)
}

func TestFit_OrderIndependent(t *testing.T) {
	a, err := Fit([]string{"b", "a", "c"})
	require.NoError(t, err)
	b, err := Fit([]string{"c", "c", "b", "a"})
	require.NoError(t, err)

	assert.Equal(t, a.Classes(), b.Classes())
}

func TestFit_EmptyLabel(t *testing.T) {
	_, err := Fit([]string{"a", ""})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTransform_Unknown(t *testing.T) {
	enc, err := Fit([]string{"a"})
	require.NoError(t, err)

	_, err = enc.Transform([]string{"a", "z"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestLookup(t *testing.T) {
	enc, err := Fit([]string{"x", "y"})
	require.NoError(t, err)

	id, ok := enc.ID("y")
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	l, ok := enc.Label(0)
	assert.True(t, ok)
	assert.Equal(t, "x", l)

	_, ok = enc.Label(2)
	assert.False(t, ok)
}

func TestMappingRoundTrip(t *testing.T) {
	enc, err := Fit([]string{"PF1: odd", "PF0"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = enc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "PF0: 0\nPF1: odd: 1\n", buf.String())

	back, err := ReadMapping(&buf)
	require.NoError(t, err)
	assert.Equal(t, enc.Classes(), back.Classes())
}

func TestReadMapping_OutOfOrder(t *testing.T) {
	_, err := ReadMapping(bytes.NewBufferString("a: 1\n"))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestFromClasses_Duplicate(t *testing.T) {
	_, err := FromClasses([]string{"a", "a"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
