//go:build linux || darwin || freebsd

package common

import "golang.org/x/sys/unix"

// LockMemory pins b into RAM so key material is not swapped out while in
// use. The returned release func unlocks and zeroes b. Locking is best
// effort: RLIMIT_MEMLOCK may be exhausted, in which case only the wipe runs.
func LockMemory(b []byte) (release func()) {
	if len(b) == 0 {
		return func() {}
	}
	locked := unix.Mlock(b) == nil
	return func() {
		WipeByteArray(b)
		if locked {
			_ = unix.Munlock(b)
		}
	}
}
