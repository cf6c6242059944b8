// Package conv provides checked integer conversion helpers.
//
// Image sizes come from the operating system as int64 while buffers are
// indexed with int. The helpers report whether a value fits instead of
// truncating it silently.
package conv

import "math"

// Int64ToInt converts n to int. ok is false if n is negative or does not fit
// in int on the current platform.
func Int64ToInt(n int64) (v int, ok bool) {
	// Compare as uint64 so the check also holds where int is 32 bits wide.
	if n < 0 || uint64(n) > uint64(math.MaxInt) {
		return 0, false
	}
	return int(n), true
}
