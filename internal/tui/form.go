package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/offybox/offyadmin/pkg/client"
)

// formField is one input on a form. Fields with options are cycled with h/l
// instead of typed.
type formField struct {
	key      string
	label    string
	options  []string
	secret   bool
	optional bool
}

// formDef describes a form and what saving it does.
type formDef struct {
	id     string
	title  string
	fields []formField
	// initial values keyed by field key.
	initial map[string]string
	// submit receives every field value keyed by field key and returns the
	// status line to show on success.
	submit func(ctx context.Context, values map[string]string) (string, error)
	// keepValues leaves the inputs filled after a successful save.
	keepValues bool
}

type formModel struct {
	def        formDef
	values     []string
	focus      int
	status     string
	failed     bool
	submitting bool
}

type formSubmittedMsg struct {
	id     string
	status string
	err    error
}

func newFormModel(def formDef) formModel {
	m := formModel{def: def, values: make([]string, len(def.fields))}
	m.reset()
	return m
}

func (m *formModel) reset() {
	for i, f := range m.def.fields {
		switch v, ok := m.def.initial[f.key]; {
		case ok:
			m.values[i] = v
		case len(f.options) > 0:
			m.values[i] = f.options[0]
		default:
			m.values[i] = ""
		}
	}
	m.focus = 0
}

// valueMap returns the current inputs keyed by field key.
func (m formModel) valueMap() map[string]string {
	out := make(map[string]string, len(m.values))
	for i, f := range m.def.fields {
		out[f.key] = strings.TrimSpace(m.values[i])
	}
	return out
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		if msg.id != m.def.id {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.failed = true
			m.status = client.Message(msg.err)
			return m, nil
		}
		m.failed = false
		m.status = msg.status
		if !m.def.keepValues {
			m.reset()
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	n := len(m.def.fields)
	if n == 0 {
		return m, nil
	}
	field := m.def.fields[m.focus]

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus == n-1 {
			return m.submit()
		}
		m.focus++
	case "backspace":
		if len(field.options) == 0 {
			m.values[m.focus] = editRune(m.values[m.focus], "backspace")
		}
	default:
		if len(field.options) > 0 {
			switch msg.String() {
			case "h", "left":
				m.values[m.focus] = cycle(field.options, m.values[m.focus], -1)
			case "l", "right", " ":
				m.values[m.focus] = cycle(field.options, m.values[m.focus], 1)
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.values[m.focus] = appendInput(m.values[m.focus], string(msg.Runes))
		}
	}
	return m, nil
}

// cycle returns the option step places away from current, wrapping around.
func cycle(options []string, current string, step int) string {
	idx := slices.Index(options, current)
	if idx < 0 {
		return options[0]
	}
	return options[(idx+step+len(options))%len(options)]
}

func (m formModel) submit() (formModel, tea.Cmd) {
	values := m.valueMap()
	for _, f := range m.def.fields {
		if !f.optional && values[f.key] == "" {
			m.failed = true
			m.status = f.label + " is required"
			return m, nil
		}
	}
	m.submitting = true
	m.status = ""
	id, submit := m.def.id, m.def.submit
	return m, func() tea.Msg {
		status, err := submit(context.Background(), values)
		return formSubmittedMsg{id: id, status: status, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder
	if m.def.title != "" {
		b.WriteString(" " + titleStyle.Render(m.def.title) + "\n\n")
	}

	width := 0
	for _, f := range m.def.fields {
		width = max(width, len(f.label))
	}
	for i, f := range m.def.fields {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		label := style.Render(padRight(f.label, width))
		value := m.values[i]
		switch {
		case len(f.options) > 0:
			value = StatusStyle(value).Render(value) + dimStyle.Render("  (h/l)")
		case f.secret:
			value = mask(value)
		}
		if i == m.focus && len(f.options) == 0 {
			value += accentStyle.Render("█")
		}
		if m.values[i] == "" && i != m.focus && f.optional {
			value = inputPlaceholderStyle.Render("optional")
		}
		fmt.Fprintf(&b, " %s %s  %s\n", cursor, label, value)
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("saving..."))
	case m.status != "" && m.failed:
		b.WriteString(" " + errStyle.Render(m.status))
	case m.status != "":
		b.WriteString(" " + okStyle.Render(m.status))
	}
	return b.String()
}
