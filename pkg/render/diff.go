package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares two renderings character by character. It reports whether
// they are equal and, when they are not, a single-line diff marking
// deletions as [-text-] and insertions as {+text+}.
func Diff(expected, actual string, colorize bool) (string, bool) {
	if expected == actual {
		return "", true
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	deleted := color.New(color.FgRed)
	inserted := color.New(color.FgGreen)

	for _, c := range []*color.Color{deleted, inserted} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var sb strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(deleted.Sprint("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(inserted.Sprint("{+" + d.Text + "+}"))
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}

	return sb.String(), false
}
