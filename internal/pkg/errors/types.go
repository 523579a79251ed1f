package errors

// ErrorType classifies an error by its nature and origin.
type ErrorType int

const (
	// Unknown is the zero value; avoid using it directly.
	Unknown ErrorType = iota

	// Internal marks a bug inside the application (unexpected state, nil
	// dereference guards and the like).
	Internal

	// System marks an infrastructure level failure (disk, network).
	System

	// InvalidInput marks a rejected user supplied value or an invalid or
	// contradictory configuration.
	InvalidInput

	// NotFound marks a missing resource.
	NotFound

	// ExecutionFailed marks a failed business operation or external call.
	ExecutionFailed

	// ParsingFailed marks a data decoding or format conversion failure.
	ParsingFailed

	// Timeout marks an operation that exceeded its deadline.
	Timeout

	// Unavailable marks a temporarily unreachable external service.
	Unavailable
)

var errorTypeNames = map[ErrorType]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	InvalidInput:    "InvalidInput",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}
