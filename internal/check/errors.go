package check

import (
	"fmt"

	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
)

// NewErrInvalidProxy wraps a proxy URL that failed to parse.
func NewErrInvalidProxy(err error, proxy string) error {
	return apperrors.Wrapf(err, apperrors.InvalidInput, "invalid proxy URL %q", proxy)
}

// NewErrLookupFailed wraps a transport-level lookup failure.
func NewErrLookupFailed(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.Unavailable, "lookup request for %s failed", url)
}

// NewErrUnexpectedStatus records a non-OK answer from the source.
func NewErrUnexpectedStatus(status int, url string) error {
	errType := apperrors.ExecutionFailed
	if status >= 500 || status == 429 {
		errType = apperrors.Unavailable
	}
	return apperrors.New(errType, fmt.Sprintf("lookup of %s answered HTTP %d", url, status))
}

// NewErrPageDecodingFailed wraps a charset conversion failure.
func NewErrPageDecodingFailed(err error, url string) error {
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "failed to decode the page at %s", url)
}

// NewErrPageParsingFailed reports an unparseable document; err may be
// nil when the payload was simply not valid markup or JSON.
func NewErrPageParsingFailed(err error, url string) error {
	if err == nil {
		return apperrors.Newf(apperrors.ParsingFailed, "the document at %s could not be parsed", url)
	}
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "the document at %s could not be parsed", url)
}

// NewErrInputFileFailed wraps a failure to open or read the identifier
// input file.
func NewErrInputFileFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.System, "failed to read the input file %q", path)
}

// NewErrReportFailed wraps a failure to create or write the CSV report.
func NewErrReportFailed(err error, path string) error {
	return apperrors.Wrapf(err, apperrors.System, "failed writing the report %q", path)
}

// ErrNoIdentifiers is returned when the input file holds no usable
// identifiers.
var ErrNoIdentifiers = apperrors.New(apperrors.InvalidInput, "the input file contains no valid identifiers")
