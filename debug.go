//go:build debug
// +build debug

package narrowphase

import "fmt"

// debugAssert panics when an internal invariant does not hold. It is a no-op without the debug tag.
func debugAssert(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Errorf("narrowphase: assertion failed: %s", fmt.Sprint(msg...)))
	}
}
