package utils

import (
	"regexp"
	"strings"
)

var controlCharRegexp = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// SanitizeString strips NUL and other control characters and trims
// surrounding whitespace. Shape validation is left to the binding layer.
func SanitizeString(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.TrimSpace(input)
	return controlCharRegexp.ReplaceAllString(input, "")
}

// FieldSanitizer rewrites one request field in place.
type FieldSanitizer func(string) string

// SanitizeFields applies a per-field sanitizer schema to the referenced
// fields. Each request type declares its own field-name to sanitizer
// mapping, so sanitization never relies on runtime type introspection.
func SanitizeFields(fields map[string]*string, schema map[string]FieldSanitizer) {
	for name, value := range fields {
		if value == nil {
			continue
		}
		if sanitize, ok := schema[name]; ok {
			*value = sanitize(*value)
		}
	}
}
