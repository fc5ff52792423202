//go:build !(linux || darwin || freebsd)

package common

// LockMemory returns a release func that zeroes b. Memory locking is not
// available on this platform.
func LockMemory(b []byte) (release func()) {
	return func() { WipeByteArray(b) }
}
