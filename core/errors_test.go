package core

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInputError(t *testing.T) {
	err := NewInvalidInput("split", "no rows")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "split: invalid input: no rows", err.Error())

	var iie *InvalidInputError
	assert.True(t, errors.As(error(err), &iie))
	assert.Equal(t, "split", iie.Op)
}

func TestWrapInvalidInput(t *testing.T) {
	cause := errors.New("boom")
	err := WrapInvalidInput("labels", cause)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, cause)
}

func TestConfigurationError(t *testing.T) {
	_, cause := strconv.ParseInt("4.2", 10, 64)
	err := NewConfigurationError("seed", "4.2", cause)

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), `seed="4.2"`)
}
