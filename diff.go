package iniconf

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff between the serialized forms of a and b. Lines
// only in a are prefixed with "-", lines only in b with "+", common lines
// with " ". The result is empty if both render identically.
func Diff(a, b *Node) string {
	s := &Serializer{LineSeparator: "\n"}
	left := s.String(a) + "\n"
	right := s.String(b) + "\n"
	if left == right {
		return ""
	}

	dmp := diffmatchpatch.New()
	l, r, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(l, r, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}

	return sb.String()
}
