package domain

import "time"

// WindowsOverlap reports whether the half-open windows [s1, e1) and
// [s2, e2) intersect. A contract ending exactly when another begins
// does not overlap.
func WindowsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}
