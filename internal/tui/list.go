package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/offybox/offyadmin/pkg/client"
)

// -- messages --

type resourceLoadedMsg struct {
	name string
	err  error
}

type resourceChangedMsg struct {
	name   string
	status string
	err    error
}

type copyResultMsg struct {
	id  string
	err error
}

// openFormMsg asks the App to show a form.
type openFormMsg struct {
	def formDef
}

// -- model --

type listModel struct {
	res     resource
	cursor  int
	confirm bool // waiting for y after d
	status  string
	failed  bool
	height  int
}

func newListModel(res resource) listModel {
	return listModel{res: res}
}

func (m listModel) fetch() tea.Cmd {
	res := m.res
	return func() tea.Msg {
		err := res.fetch(context.Background())
		return resourceLoadedMsg{name: res.name(), err: err}
	}
}

// selected returns the id under the cursor, or "" for an empty list.
func (m listModel) selected() string {
	rows := m.res.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return ""
	}
	return rows[m.cursor].id
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case resourceLoadedMsg:
		if msg.name != m.res.name() {
			return m, nil
		}
		m.clampCursor()

	case resourceChangedMsg:
		if msg.name != m.res.name() {
			return m, nil
		}
		m.setStatus(msg.status, msg.err)
		m.clampCursor()

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus("", fmt.Errorf("copy failed: %w", msg.err))
		} else {
			m.setStatus("copied "+msg.id, nil)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *listModel) setStatus(status string, err error) {
	if err != nil {
		m.status = client.Message(err)
		m.failed = true
		return
	}
	m.status = status
	m.failed = false
}

func (m *listModel) clampCursor() {
	n := len(m.res.rows())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if m.confirm {
		m.confirm = false
		id := m.selected()
		if msg.String() != "y" || id == "" {
			m.status = ""
			return m, nil
		}
		res := m.res
		return m, func() tea.Msg {
			err := res.remove(context.Background(), id)
			return resourceChangedMsg{name: res.name(), status: "deleted " + id, err: err}
		}
	}

	n := len(m.res.rows())
	switch msg.String() {
	case "j", "down":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(n-1, 0)
	case "r":
		m.status = ""
		return m, m.fetch()
	case "n":
		def := m.createForm()
		return m, func() tea.Msg { return openFormMsg{def: def} }
	case "e", "enter":
		if id := m.selected(); id != "" {
			def := m.editForm(id)
			return m, func() tea.Msg { return openFormMsg{def: def} }
		}
	case "d":
		if id := m.selected(); id != "" {
			m.confirm = true
			m.status = ""
		}
	case "t":
		tg, ok := m.res.(toggler)
		id := m.selected()
		if !ok || id == "" {
			return m, nil
		}
		name := m.res.name()
		return m, func() tea.Msg {
			err := tg.toggle(context.Background(), id)
			return resourceChangedMsg{name: name, status: "status changed", err: err}
		}
	case "c":
		if id := m.selected(); id != "" {
			return m, func() tea.Msg {
				return copyResultMsg{id: id, err: clipboard.WriteAll(id)}
			}
		}
	}
	return m, nil
}

func (m listModel) createForm() formDef {
	res := m.res
	return formDef{
		id:     "create:" + res.name(),
		title:  "New " + strings.ToLower(res.title()),
		fields: res.fields(false),
		submit: func(ctx context.Context, v map[string]string) (string, error) {
			if err := res.create(ctx, v); err != nil {
				return "", err
			}
			return "created", nil
		},
	}
}

func (m listModel) editForm(id string) formDef {
	res := m.res
	before := res.values(id)
	return formDef{
		id:      "edit:" + res.name(),
		title:   "Edit " + strings.ToLower(res.title()) + " " + id,
		fields:  res.fields(true),
		initial: before,
		submit: func(ctx context.Context, v map[string]string) (string, error) {
			patch := changed(before, v)
			if len(patch) == 0 {
				return "nothing to save", nil
			}
			if err := res.update(ctx, id, patch); err != nil {
				return "", err
			}
			return "saved " + id, nil
		},
		keepValues: true,
	}
}

func (m listModel) View() string {
	var b strings.Builder
	rows := m.res.rows()
	cols := m.res.columns()

	title := titleStyle.Render(m.res.title())
	count := dimStyle.Render(fmt.Sprintf("%d", len(rows)))
	b.WriteString(" " + title + "  " + count)
	if m.res.loading() {
		b.WriteString("  " + dimStyle.Render("loading..."))
	}
	b.WriteString("\n")
	if e := m.res.errMsg(); e != "" {
		b.WriteString(" " + errStyle.Render("error: "+e) + "\n")
	}
	b.WriteString("\n")

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = padRight(c.title, c.width)
	}
	b.WriteString("   " + headerStyle.Render(strings.Join(header, "  ")) + "\n")

	if len(rows) == 0 {
		b.WriteString("\n " + dimStyle.Render("nothing here yet, press n to add one") + "\n")
	}

	start, end := m.window(len(rows))
	for i := start; i < end; i++ {
		r := rows[i]
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		cells := make([]string, len(cols))
		for j, c := range cols {
			text := ""
			if j < len(r.cells) {
				text = r.cells[j]
			}
			cell := padRight(text, c.width)
			switch {
			case r.status != "" && text == r.status:
				cells[j] = StatusStyle(text).Render(cell)
			case isPriority(text):
				cells[j] = PriorityStyle(text).Render(cell)
			default:
				cells[j] = style.Render(cell)
			}
		}
		b.WriteString(" " + cursor + " " + strings.Join(cells, "  ") + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirm:
		b.WriteString(" " + warnStyle.Render("delete "+m.selected()+"? y to confirm") + "\n")
	case m.status != "" && m.failed:
		b.WriteString(" " + errStyle.Render(m.status) + "\n")
	case m.status != "":
		b.WriteString(" " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func isPriority(s string) bool {
	_, ok := priorityColors[s]
	return ok
}

// window returns the row range that fits the terminal around the cursor.
func (m listModel) window(n int) (int, int) {
	visible := m.height - 10
	if m.height == 0 || visible >= n {
		return 0, n
	}
	visible = max(visible, 3)
	start := max(m.cursor-visible/2, 0)
	end := min(start+visible, n)
	start = max(end-visible, 0)
	return start, end
}

func (m listModel) helpKeys() string {
	entries := []string{
		helpEntry("j/k", "nav"),
		helpEntry("n", "new"),
		helpEntry("e", "edit"),
		helpEntry("d", "delete"),
		helpEntry("c", "copy id"),
		helpEntry("r", "refresh"),
	}
	if _, ok := m.res.(toggler); ok {
		entries = append(entries, helpEntry("t", "toggle"))
	}
	return helpBar(entries...)
}
