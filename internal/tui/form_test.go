package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testFormDef(got *map[string]string) formDef {
	return formDef{
		id:    "test",
		title: "Test",
		fields: []formField{
			{key: "name", label: "name"},
			{key: "secret", label: "secret", secret: true},
			{key: "note", label: "note", optional: true},
			{key: "status", label: "status", options: []string{"active", "inactive"}},
		},
		submit: func(_ context.Context, v map[string]string) (string, error) {
			*got = v
			return "ok", nil
		},
	}
}

func formKeys(m formModel, msgs ...tea.KeyMsg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range msgs {
		m, cmd = m.Update(k)
	}
	return m, cmd
}

func formType(m formModel, s string) formModel {
	for _, r := range s {
		m, _ = m.Update(runeKey(string(r)))
	}
	return m
}

func TestFormDefaultsOptionFields(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	if m.values[3] != "active" {
		t.Errorf("option default = %q, want active", m.values[3])
	}
}

func TestFormInitialValues(t *testing.T) {
	var got map[string]string
	def := testFormDef(&got)
	def.initial = map[string]string{"name": "Acme", "status": "inactive"}
	m := newFormModel(def)
	if m.values[0] != "Acme" || m.values[3] != "inactive" {
		t.Errorf("values = %v", m.values)
	}
}

func TestFormFocusWraps(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m, _ = formKeys(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != 3 {
		t.Errorf("shift+tab from first: focus = %d, want 3", m.focus)
	}
	m, _ = formKeys(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != 0 {
		t.Errorf("tab from last: focus = %d, want 0", m.focus)
	}
}

func TestFormCyclesOptions(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m.focus = 3
	m, _ = m.Update(runeKey("l"))
	if m.values[3] != "inactive" {
		t.Errorf("l: %q, want inactive", m.values[3])
	}
	m, _ = m.Update(runeKey("l"))
	if m.values[3] != "active" {
		t.Errorf("l wraps: %q, want active", m.values[3])
	}
	m, _ = m.Update(runeKey("h"))
	if m.values[3] != "inactive" {
		t.Errorf("h wraps back: %q, want inactive", m.values[3])
	}
	m, _ = m.Update(runeKey("x"))
	if m.values[3] != "inactive" {
		t.Error("typing into an option field should do nothing")
	}
}

func TestFormTypingAndBackspace(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m = formType(m, "hallo")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = formType(m, "!")
	if m.values[0] != "hall!" {
		t.Errorf("value = %q", m.values[0])
	}
}

func TestFormRequiredFields(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m = formType(m, "n")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("submit with a missing field should not run")
	}
	if !m.failed || m.status != "secret is required" {
		t.Errorf("status = %q failed=%v", m.status, m.failed)
	}
}

func TestFormSubmitAndReset(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m = formType(m, " Acme ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = formType(m, "pw")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.submitting {
		t.Fatal("expected submitting")
	}
	// Keys are ignored while saving.
	m = formType(m, "zzz")
	if m.values[1] != "pw" {
		t.Errorf("value changed while submitting: %q", m.values[1])
	}

	msg := runCmd(t, cmd)
	m, _ = m.Update(msg)
	if got["name"] != "Acme" || got["secret"] != "pw" || got["status"] != "active" || got["note"] != "" {
		t.Errorf("submitted %v", got)
	}
	if m.status != "ok" || m.failed {
		t.Errorf("status = %q failed=%v", m.status, m.failed)
	}
	if m.values[0] != "" || m.focus != 0 {
		t.Error("form should reset after a save")
	}
}

func TestFormKeepValues(t *testing.T) {
	var got map[string]string
	def := testFormDef(&got)
	def.keepValues = true
	m := newFormModel(def)
	m = formType(m, "Acme")
	m, _ = m.Update(formSubmittedMsg{id: "test", status: "saved"})
	if m.values[0] != "Acme" {
		t.Error("keepValues form lost its input")
	}
}

func TestFormShowsError(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m, _ = m.Update(formSubmittedMsg{id: "test", err: errors.New("name taken")})
	if !m.failed || m.status != "name taken" {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "name taken") {
		t.Error("view should show the error")
	}
}

func TestFormIgnoresOtherForms(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m, _ = m.Update(formSubmittedMsg{id: "other", status: "nope"})
	if m.status != "" {
		t.Errorf("status = %q, want empty", m.status)
	}
}

func TestFormMasksSecrets(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m.values[1] = "hunter2"
	if strings.Contains(m.View(), "hunter2") {
		t.Error("secret rendered in clear text")
	}
}

func TestFormEnterAdvancesThenSubmits(t *testing.T) {
	var got map[string]string
	m := newFormModel(testFormDef(&got))
	m = formType(m, "a")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.focus != 1 {
		t.Fatalf("enter should move to the next field, focus=%d", m.focus)
	}
	m = formType(m, "b")
	m, _ = formKeys(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the last field should submit")
	}
}

func TestCycleUnknownCurrent(t *testing.T) {
	if got := cycle([]string{"a", "b"}, "zzz", 1); got != "a" {
		t.Errorf("cycle = %q, want a", got)
	}
}
