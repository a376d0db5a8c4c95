package llm

import (
	"errors"
	"fmt"
)

type Reason string

const (
	ReasonRequest       Reason = "request"
	ReasonEmptyResponse Reason = "empty_response"
	ReasonMalformedJSON Reason = "malformed_json"
)

// ExtractionError is the failure side of an extraction: the call to the
// model failed, returned nothing, or returned something that is not the
// expected JSON object.
type ExtractionError struct {
	Reason Reason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Describe is the short text shown to the user.
func (e *ExtractionError) Describe() string {
	switch e.Reason {
	case ReasonRequest:
		return "the extraction service could not be reached"
	case ReasonEmptyResponse:
		return "the extraction service returned an empty response"
	case ReasonMalformedJSON:
		return "the extraction service returned malformed JSON"
	default:
		return string(e.Reason)
	}
}

// ReasonOf reports the reason of the first ExtractionError in err's chain.
func ReasonOf(err error) (Reason, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Reason, true
	}
	return "", false
}
