// # internal/transform/errors.go
package transform

import "errors"

// ErrUnhandledUsageContext is returned when a call site's usage cannot be
// classified. Strict passes abort the file on it; lenient passes leave the
// call site unchanged.
var ErrUnhandledUsageContext = errors.New("unhandled usage context")
