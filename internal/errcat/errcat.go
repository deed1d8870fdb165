// Package errcat provides the shared error-construction helpers used by
// every component package (schema, dynamicpb, wireformat, dynjson). It
// mirrors the component-prefixed string convention of internal/errors,
// but since callers branch on error identity, each component defines its
// own concrete error type rather than hiding behind a bare string.
package errcat

import "fmt"

// Prefix builds a message with the given component tag, e.g. "schema: ".
func Prefix(component, format string, args ...interface{}) string {
	return component + ": " + fmt.Sprintf(format, args...)
}
