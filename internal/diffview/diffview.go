// Package diffview computes and renders compact line diffs for edit review.
package diffview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 2

// Op classifies a diff line.
type Op int

const (
	OpContext Op = iota
	OpDelete
	OpInsert
)

func (o Op) prefix() string {
	switch o {
	case OpDelete:
		return "-"
	case OpInsert:
		return "+"
	default:
		return " "
	}
}

// Line is a single rendered diff line without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with its surrounding context. Starts are 1-based
// line numbers into the old and new text.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// Diff is the line-level difference between two texts.
type Diff struct {
	Hunks []Hunk
}

// Empty reports whether the two texts were identical.
func (d Diff) Empty() bool { return len(d.Hunks) == 0 }

// Stats counts deleted and inserted lines.
func (d Diff) Stats() (deleted, inserted int) {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Op {
			case OpDelete:
				deleted++
			case OpInsert:
				inserted++
			}
		}
	}
	return deleted, inserted
}

// Compute diffs oldText against newText line by line, keeping at most
// context unchanged lines on either side of each change. A negative context
// is treated as zero.
func Compute(oldText, newText string, context int) Diff {
	if context < 0 {
		context = 0
	}
	a, b := splitLines(oldText), splitLines(newText)
	m := difflib.NewMatcher(a, b)

	var d Diff
	for _, group := range m.GetGroupedOpCodes(context) {
		if !hasChange(group) {
			continue
		}
		first, last := group[0], group[len(group)-1]
		h := Hunk{
			OldStart: first.I1 + 1,
			OldLines: last.I2 - first.I1,
			NewStart: first.J1 + 1,
			NewLines: last.J2 - first.J1,
		}
		for _, c := range group {
			switch c.Tag {
			case 'e':
				h.Lines = appendLines(h.Lines, OpContext, a[c.I1:c.I2])
			case 'd':
				h.Lines = appendLines(h.Lines, OpDelete, a[c.I1:c.I2])
			case 'i':
				h.Lines = appendLines(h.Lines, OpInsert, b[c.J1:c.J2])
			case 'r':
				h.Lines = appendLines(h.Lines, OpDelete, a[c.I1:c.I2])
				h.Lines = appendLines(h.Lines, OpInsert, b[c.J1:c.J2])
			}
		}
		d.Hunks = append(d.Hunks, h)
	}
	return d
}

func hasChange(group []difflib.OpCode) bool {
	for _, c := range group {
		if c.Tag != 'e' {
			return true
		}
	}
	return false
}

func appendLines(dst []Line, op Op, src []string) []Line {
	for _, s := range src {
		dst = append(dst, Line{Op: op, Text: s})
	}
	return dst
}

// splitLines breaks s into lines without their terminators. An empty string
// has no lines; a trailing newline does not produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Styles controls how rendered lines are decorated.
type Styles struct {
	Header  lipgloss.Style
	Hunk    lipgloss.Style
	Delete  lipgloss.Style
	Insert  lipgloss.Style
	Context lipgloss.Style
}

// ColorStyles mirrors the usual red/green terminal diff look. Tabs are kept
// verbatim so indentation in the preview matches the file.
func ColorStyles() Styles {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Header:  base.Bold(true),
		Hunk:    base.Foreground(lipgloss.Color("6")),
		Delete:  base.Foreground(lipgloss.Color("1")),
		Insert:  base.Foreground(lipgloss.Color("2")),
		Context: base,
	}
}

// PlainStyles renders without any decoration.
func PlainStyles() Styles {
	base := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{Header: base, Hunk: base, Delete: base, Insert: base, Context: base}
}

func (s Styles) forOp(o Op) lipgloss.Style {
	switch o {
	case OpDelete:
		return s.Delete
	case OpInsert:
		return s.Insert
	default:
		return s.Context
	}
}

// Render writes a unified-style view of d for path to w.
func Render(w io.Writer, path string, d Diff, st Styles) error {
	var b strings.Builder
	b.WriteString(st.Header.Render("--- "+path) + "\n")
	b.WriteString(st.Header.Render("+++ "+path) + "\n")
	for _, h := range d.Hunks {
		b.WriteString(st.Hunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)) + "\n")
		for _, l := range h.Lines {
			b.WriteString(st.forOp(l.Op).Render(l.Op.prefix()+l.Text) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String renders d without decoration and without file headers.
func (d Diff) String() string {
	var b strings.Builder
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		for _, l := range h.Lines {
			b.WriteString(l.Op.prefix() + l.Text + "\n")
		}
	}
	return b.String()
}
