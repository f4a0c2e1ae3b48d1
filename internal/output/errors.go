package output

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteArtifact indicates an output file could not be produced.
	ErrWriteArtifact = errors.New("write artifact")

	// ErrReadSchema indicates a schema-mirror header could not be read.
	ErrReadSchema = errors.New("read schema header")
)

func wrapWrite(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrWriteArtifact, path, err)
}
