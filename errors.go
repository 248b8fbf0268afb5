package pfamprep

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/manifest"
)

var (
	// ErrInvalidInput is matched by every input validation failure.
	ErrInvalidInput = core.ErrInvalidInput

	// ErrConfiguration is matched by every rejected option or config value.
	ErrConfiguration = core.ErrConfiguration

	// ErrNotStaged is returned by Curate when the staging bucket holds no
	// committed dataset version.
	ErrNotStaged = errors.New("no staged dataset")
)

// InvalidInputError describes rejected input.
type InvalidInputError = core.InvalidInputError

// ConfigurationError describes a rejected configuration value.
type ConfigurationError = core.ConfigurationError

// StageError reports which pipeline stage failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: translateError(err)}
}

func translateError(err error) error {
	if errors.Is(err, manifest.ErrNotFound) && !errors.Is(err, ErrNotStaged) {
		return fmt.Errorf("%w: %w", ErrNotStaged, err)
	}
	return err
}
