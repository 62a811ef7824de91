package tui

import (
	"fmt"
	"strings"

	"gallerist/internal/assets"
	"gallerist/internal/browser"
)

const chromeLines = 7

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if review := m.session.Review(); review != nil {
		b.WriteString(m.reviewView(review))
	} else {
		b.WriteString(m.galleryView())
	}

	if m.session.Prompt().Open() {
		b.WriteString("\n")
		b.WriteString(m.promptView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) header() string {
	title := titleStyle.Render("gallerist")
	day := assets.DayLabel(m.session.Root())
	crumb := pathStyle.Render(m.session.Current())
	cartCount := inCartStyle.Render(fmt.Sprintf("cart: %d", m.session.Cart().Size()))
	parts := []string{title, crumb, cartCount}
	if day != "" {
		parts = append(parts, dimStyle.Render(day))
	}
	return strings.Join(parts, "  ")
}

func (m Model) galleryView() string {
	items := m.session.Items()
	if len(items) == 0 {
		if m.session.RefreshedAt().IsZero() && m.session.RefreshError() == nil {
			return dimStyle.Render("loading…")
		}
		return dimStyle.Render("no assets here")
	}

	sel := m.session.Selection()
	start, end := window(len(items), m.cursor, m.listHeight())
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		var line string
		if item.Folder {
			line = dirStyle.Render("▸ " + item.Name + "/")
		} else {
			marker := "  "
			switch {
			case sel.Anchor() == item.Record.Path:
				marker = "◆ "
			case sel.Contains(item.Record.Path):
				marker = "■ "
			}
			name := marker + item.Name
			if m.session.Cart().Contains(m.session.URL(item.Record.Path)) {
				name += " ★"
			}
			if sel.Contains(item.Record.Path) || sel.Anchor() == item.Record.Path {
				line = rangeStyle.Render(name)
			} else {
				line = fileStyle.Render(name)
			}
		}
		if i == m.cursor {
			line = cursorStyle.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) reviewView(review *browser.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n\n",
		promptTitleStyle.Render("Review"),
		dirStyle.Render(review.Folder()),
		dimStyle.Render(fmt.Sprintf("%d/%d", review.Index()+1, review.Len())),
	)
	urls := review.URLs()
	if len(urls) == 0 {
		b.WriteString(dimStyle.Render("no assets in this folder"))
		return b.String()
	}
	start, end := window(len(urls), review.Index(), m.listHeight()-2)
	for i := start; i < end; i++ {
		url := urls[i]
		line := fileStyle.Render(url)
		if m.session.Cart().Contains(url) {
			line = inCartStyle.Render(url + " ★")
		}
		if i == review.Index() {
			line = cursorStyle.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) promptView() string {
	p := m.session.Prompt()
	var title, detail string
	switch p.Kind {
	case browser.PromptClientFolder:
		title = "Create client folder"
		detail = fmt.Sprintf("%d image(s) selected", len(m.session.Selection().Range()))
	case browser.PromptConfirmCart:
		title = "Confirm cart"
		detail = fmt.Sprintf("%d image(s) in cart", m.session.Cart().Size())
	}

	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(detail))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.busy {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " sending…")
	}
	if p.Notice != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(p.Notice))
	}
	return promptStyle.Render(b.String())
}

func (m Model) statusLine() string {
	if err := m.session.RefreshError(); err != nil {
		return errorStyle.Render("refresh failed; showing last listing")
	}
	if status := m.session.Status(); status != "" {
		return statusStyle.Render(status)
	}
	if at := m.session.RefreshedAt(); !at.IsZero() {
		return dimStyle.Render("updated " + at.Format("15:04:05"))
	}
	return ""
}

func (m Model) helpView() string {
	if m.help.ShowAll {
		return m.help.FullHelpView(m.keys.fullHelp())
	}
	switch {
	case m.session.Prompt().Kind == browser.PromptClientFolder:
		return m.help.ShortHelpView(m.keys.folderPromptHelp())
	case m.session.Prompt().Kind == browser.PromptConfirmCart:
		return m.help.ShortHelpView(m.keys.confirmPromptHelp())
	case m.session.Review() != nil:
		return m.help.ShortHelpView(m.keys.reviewHelp())
	default:
		return m.help.ShortHelpView(m.keys.galleryHelp())
	}
}

func (m Model) listHeight() int {
	h := m.height - chromeLines
	if m.session.Prompt().Open() {
		h -= 9
	}
	return max(3, h)
}

// window returns the [start, end) slice of n rows that keeps cursor visible
// in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}
