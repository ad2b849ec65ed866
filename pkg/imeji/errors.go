package imeji

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrServiceUnavailable is returned when the imeji service cannot be reached.
	ErrServiceUnavailable = errors.New("imeji service unavailable")

	// ErrMissingField is returned when reading a field that is not in the document.
	ErrMissingField = errors.New("missing field")

	// ErrReadOnly is returned when writing one of the read-only fields.
	ErrReadOnly = errors.New("field is read-only")

	// ErrInvalidArgument is returned for missing ids, unknown query parameters
	// and rejected field values.
	ErrInvalidArgument = errors.New("invalid argument")
)

// maxLoggedBody is the number of response body bytes kept for logs and errors.
const maxLoggedBody = 1000

// UnavailableError wraps the transport failure of a request that never
// reached the service.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("imeji service at %s unavailable: %v", e.URL, e.Err)
}

// Unwrap allows matching both ErrServiceUnavailable and the transport error.
func (e *UnavailableError) Unwrap() []error {
	return []error{ErrServiceUnavailable, e.Err}
}

// FieldError describes a failed read or write of a resource field.
type FieldError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Kind, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// APIError is returned when the service answers with an unexpected status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Expected   int

	// Body is the raw response body, truncated.
	Body string

	// Title and Report are extracted from a JSON error report, if any.
	Title  string
	Report string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: got HTTP %d, expected HTTP %d",
		e.Method, e.Path, e.StatusCode, e.Expected)
	switch {
	case e.Title != "" && e.Report != "":
		fmt.Fprintf(&b, ": %s: %s", e.Title, e.Report)
	case e.Title != "":
		fmt.Fprintf(&b, ": %s", e.Title)
	case e.Report != "":
		fmt.Fprintf(&b, ": %s", e.Report)
	}
	return b.String()
}

// errorReport is the error structure the service returns with 4xx and 5xx
// responses.
type errorReport struct {
	Error struct {
		Title           string `mapstructure:"title"`
		Message         string `mapstructure:"message"`
		ExceptionReport string `mapstructure:"exceptionReport"`
		Code            string `mapstructure:"code"`
	} `mapstructure:"error"`
}

// newAPIError builds an APIError, enriching it with the error report carried
// by decoded when there is one.
func newAPIError(method, path string, status, expected int, body []byte, decoded any) *APIError {
	apiErr := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Expected:   expected,
		Body:       truncate(body),
	}

	doc, ok := decoded.(*Document)
	if !ok {
		return apiErr
	}

	var report errorReport
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &report,
	})
	if err != nil {
		return apiErr
	}
	if err := dec.Decode(doc.Map()); err != nil {
		return apiErr
	}

	apiErr.Title = report.Error.Title
	apiErr.Report = report.Error.ExceptionReport
	if apiErr.Report == "" {
		apiErr.Report = report.Error.Message
	}
	return apiErr
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody])
	}
	return string(body)
}
