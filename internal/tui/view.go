package tui

import (
	"fmt"
	"strings"

	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🏎️ F1 Race Data Fetcher"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fetch and export Formula 1 race datasets"))
	b.WriteString("\n\n")

	switch m.state {
	case StateSeason:
		b.WriteString(m.viewSeason())
	case StateLoadingEvents:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Loading calendar..."))
		b.WriteString("\n")
	case StateEvents:
		b.WriteString(m.viewEvents())
	case StateSections:
		b.WriteString(m.viewSections())
	case StateFetching:
		b.WriteString(m.viewFetching())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateError:
		b.WriteString(m.viewError())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewSeason() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Season:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	if m.opts.OutputDir != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.opts.OutputDir)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewEvents() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d calendar", m.season)))
	b.WriteString("\n\n")

	// Keep the cursor inside a window of the visible rows.
	window := 15
	if m.height > 12 {
		window = m.height - 12
	}
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := min(start+window, len(m.calendar))

	for i := start; i < end; i++ {
		e := m.calendar[i]
		line := fmt.Sprintf("%2d  %-28s %-16s %s", e.Round, e.Name, e.Country, formatDate(e))
		if e.IsSprint() {
			line += " " + warningStyle.Render("sprint")
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewSections() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s, %s", m.event.Name, m.event.Key())))
	b.WriteString("\n\n")

	for i, d := range m.session.Registry().All() {
		check := "[ ]"
		if m.session.IsSelected(d.ID) {
			check = "[×]"
		}
		line := fmt.Sprintf("%s %s %s", check, d.Icon, d.Label)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d section(s) selected", len(m.session.Selected()))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewFetching() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Fetching %s...", m.event.Name)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Sections: %d/%d", m.lastProgress.Completed, m.lastProgress.Total)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	cache := m.session.Cache()
	reg := m.session.Registry()
	ids, _ := reg.Ordered(cache.IDs())

	var lines []string
	for _, id := range ids {
		d, _ := reg.Get(id)
		o, _ := cache.Get(id)
		switch o.Status {
		case model.StatusSuccess:
			lines = append(lines, successStyle.Render(fmt.Sprintf("✓ %s %s (%s)", d.Icon, d.Label, describe(o.Payload))))
		case model.StatusEmpty:
			lines = append(lines, warningStyle.Render(fmt.Sprintf("! %s %s: no data available", d.Icon, d.Label)))
		case model.StatusFailure:
			lines = append(lines, errorStyle.Render(fmt.Sprintf("✗ %s %s: %s", d.Icon, d.Label, o.Message)))
		}
	}

	summary := fmt.Sprintf("%s\n\nFetched: %d  Empty: %d  Failed: %d",
		strings.Join(lines, "\n"),
		cache.Count(model.StatusSuccess),
		cache.Count(model.StatusEmpty),
		cache.Count(model.StatusFailure),
	)
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n")

	if m.saved != nil {
		for _, path := range append(m.saved.Sections, m.saved.Workbook) {
			if path != "" {
				b.WriteString(dimStyle.Render("  " + path))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style = dimStyle
		prefix := "•"
		switch log.Level {
		case fetch.LevelError:
			style = errorStyle
			prefix = "✗"
		case fetch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case fetch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case fetch.LevelInfo:
			style = infoStyle
			prefix = "›"
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSeason:
		return "enter: load calendar • esc: quit"
	case StateEvents:
		return "↑/↓: move • enter: choose event • esc: back"
	case StateSections:
		return "↑/↓: move • space: toggle • a: select/clear all • enter: fetch • esc: back"
	case StateFetching:
		return "esc: cancel"
	case StateResults:
		return "e: export archive • r: fetch different data • h: home • q: quit"
	case StateError:
		return "h: home • q: quit"
	}
	return ""
}

func describe(p model.Payload) string {
	if p.Shape == model.Structured {
		return fmt.Sprintf("%d fields", p.Record.Len())
	}
	return fmt.Sprintf("%d rows", p.Table.Len())
}

func formatDate(e model.Event) string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("02 Jan")
}
