// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strconv"
	"strings"
)

// ClampLimit turns a raw ?limit= value into a page size. Blank or malformed
// input yields def. The result is held to [1, max]; max <= 0 means no cap.
//
// Example:
//
//	utils.ClampLimit("10", 50, 50)  // 10
//	utils.ClampLimit("0", 50, 50)   // 1
//	utils.ClampLimit("x", 50, 50)   // 50
//	utils.ClampLimit("500", 50, 50) // 50
func ClampLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = def
	}
	if n < 1 {
		n = 1
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}
