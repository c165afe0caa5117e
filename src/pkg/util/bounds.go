package util

import "cmp"

// Clamp bounds val to [lo, hi]. Used for worker counts and supersampling factors read from flags and config.
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}
