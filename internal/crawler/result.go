package crawler

import "fmt"

// Status says how a page scrape ended.
type Status int

const (
	StatusOK Status = iota
	// StatusTimeout means a marker element did not render in time.
	StatusTimeout
	// StatusNotFound means the page rendered but the thing looked for is absent.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries a value only when Status is StatusOK. Marker names the
// element that timed out or was missing; several are comma separated.
type Result[T any] struct {
	Status Status
	Value  T
	Marker string
}

func Found[T any](v T) Result[T] {
	return Result[T]{Status: StatusOK, Value: v}
}

func TimedOut[T any](marker string) Result[T] {
	return Result[T]{Status: StatusTimeout, Marker: marker}
}

func NotFound[T any](marker string) Result[T] {
	return Result[T]{Status: StatusNotFound, Marker: marker}
}

func (r Result[T]) OK() bool { return r.Status == StatusOK }

// ElementNotFoundError is returned when parsing expects an element the page
// does not contain.
type ElementNotFoundError struct {
	Marker string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %q not found", e.Marker)
}
