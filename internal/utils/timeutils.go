package utils

import (
	"fmt"
	"time"
)

// FixedZone returns a location at a constant offset from UTC that never observes DST.
func FixedZone(offset time.Duration) *time.Location {
	seconds := int(offset / time.Second)
	sign := "+"
	if seconds < 0 {
		sign = "-"
	}
	abs := seconds
	if abs < 0 {
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, seconds)
}

// MondayIndex converts a time.Weekday into 0 for Monday through 6 for Sunday.
func MondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// Mod returns the non-negative remainder of value divided by n.
func Mod(value, n int) int {
	m := value % n
	if m < 0 {
		m += n
	}
	return m
}
