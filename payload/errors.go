package payload

import "fmt"

// errShortf is a thin fmt.Errorf wrapper used only to build the Cause of a
// decodeerr.Error; it never escapes this package as a bare error.
func errShortf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
