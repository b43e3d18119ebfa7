// Package testutils provides general testing utilities.
package testutils

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff produces a pretty diff of two strings.
func Diff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffPrettyText(diffs)
}
