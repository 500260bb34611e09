package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	weekdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	learnedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	freezedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	plainStyle   = lipgloss.NewStyle()
	todayStyle   = lipgloss.NewStyle().Underline(true)
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// Render draws the month as a text grid with learned and freezed days colored.
func Render(v MonthView) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", v.Month, v.Year)))
	b.WriteString("\n")
	b.WriteString(weekdayStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	for _, week := range v.Weeks {
		cells := make([]string, 0, 7)
		for _, d := range week {
			cells = append(cells, renderCell(d))
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteString("\n")
	}

	b.WriteString(legendStyle.Render(fmt.Sprintf("%d learned, %d freezed", v.Learned, v.Freezed)))
	return b.String()
}

func renderCell(d Day) string {
	if d.Blank() {
		return "  "
	}
	text := fmt.Sprintf("%2d", d.Date.Day())

	style := plainStyle
	switch d.Mark {
	case MarkLearned:
		style = learnedStyle
	case MarkFreezed:
		style = freezedStyle
	}
	if d.Today {
		style = style.Inherit(todayStyle)
	}
	return style.Render(text)
}
