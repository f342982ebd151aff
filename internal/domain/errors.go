package domain

import "fmt"

// ConfigurationError reports a missing or invalid setting detected before any network call.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// SourceUnavailableError means the headline service could not be reached or rejected the call.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("headline source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// ExtractionError means a page could not be fetched or parsed into non-empty text.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExhaustionError is returned when the attempt budget ran out before the target was met.
type ExhaustionError struct {
	Category  string
	Target    int
	Achieved  int
	Attempted int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("category %s: processed %d of %d requested articles after %d attempts",
		e.Category, e.Achieved, e.Target, e.Attempted)
}
