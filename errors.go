package trackengine

import "fmt"

// ExceedingValueError reports a computed metric that exceeds its configured
// maximum. Validation stops at the first violated field, and the whole
// ingestion or refresh is aborted without partial writes.
type ExceedingValueError struct {
	// Field names the violated metric: distance, duration, ascent,
	// descent, or max_speed.
	Field string

	// Limit is the configured maximum for the field.
	Limit float64

	// Value is the computed value that exceeded it.
	Value float64
}

func (e *ExceedingValueError) Error() string {
	return fmt.Sprintf("one or more values, entered or calculated, exceed the limits: %s %g (max %g)", e.Field, e.Value, e.Limit)
}
