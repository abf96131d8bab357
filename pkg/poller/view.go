package poller

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Section is one block of a page: a heading, a status line and content.
type Section struct {
	Heading string
	Status  string
	Lines   []string
}

// View is a rendered page.
type View struct {
	Title    string
	Sections []Section

	// Live is set when any observed match is in progress.
	Live bool

	// Matchday is set when the followed team plays within the next day.
	Matchday bool

	// Refresh rebuilds the view from the data already loaded, at a new
	// instant. Nil for views without a running clock.
	Refresh func(now time.Time) View
}

// Render writes v as plain text.
func Render(w io.Writer, v View) error {
	var b strings.Builder

	title := v.Title
	if v.Matchday {
		title += "  [MATCHDAY]"
	}
	fmt.Fprintf(&b, "== %s ==\n", title)

	for _, s := range v.Sections {
		if s.Heading != "" {
			fmt.Fprintf(&b, "\n-- %s --\n", s.Heading)
		}
		if s.Status != "" {
			fmt.Fprintln(&b, s.Status)
		}
		for _, line := range s.Lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
