package diag

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaskedValue replaces sensitive values in logs.
const MaskedValue = "***MASKED***"

// MaskSensitive replaces the string value of each named JSON field in data.
func MaskSensitive(data string, fields ...string) string {
	if strings.TrimSpace(data) == "" {
		return data
	}
	for _, field := range fields {
		rx := regexp.MustCompile(`("` + regexp.QuoteMeta(field) + `"\s*:\s*")[^"]+(")`)
		data = rx.ReplaceAllString(data, "${1}"+MaskedValue+"${2}")
	}
	return data
}

// FormatError renders err and its immediate cause on one line.
func FormatError(err error) string {
	if err == nil {
		return "null"
	}
	s := errorTypeName(err) + ": " + err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		s += fmt.Sprintf(" (Caused by: %s: %s)", errorTypeName(cause), cause.Error())
	}
	return s
}

func errorTypeName(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
