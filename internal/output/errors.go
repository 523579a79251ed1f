package output

import (
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

var (
	// ErrEmptyPrefix is returned when no output prefix is configured.
	ErrEmptyPrefix = apperrors.New(apperrors.InvalidInput, "output prefix must not be empty")

	// ErrWriterClosed is returned on writes after Close.
	ErrWriterClosed = apperrors.New(apperrors.Internal, "write on a closed output writer")
)

// NewErrDirectoryCreationFailed wraps a failure to create the output directory.
func NewErrDirectoryCreationFailed(err error, dir string) error {
	return apperrors.Wrapf(err, apperrors.System, "failed to create the output directory %q", dir)
}

// NewErrOpenFailed wraps a failure to open an output file. This is fatal
// for the run; there is no silent continuation without a destination.
func NewErrOpenFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.System, "failed to open the output file %q", path)
}

// NewErrWriteFailed wraps a failed write or flush on an output file.
func NewErrWriteFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.System, "failed writing to the output file %q", path)
}
