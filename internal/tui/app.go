package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/offybox/offyadmin/internal/session"
	"github.com/offybox/offyadmin/internal/store"
)

type view int

const (
	viewLogin view = iota
	viewForgot
	viewDashboard
	viewList
	viewForm
	viewRegister
)

// loginScreen reports whether v is one of the signed-out screens.
func (v view) loginScreen() bool {
	return v == viewLogin || v == viewForgot
}

// syncedMsg carries the result of refreshing every store after sign-in.
type syncedMsg struct {
	err error
}

type loggedOutMsg struct {
	err error
}

// Deps is what the App needs from the rest of the program.
type Deps struct {
	Auth    *session.Manager
	Stores  *store.Set
	Router  *Router
	Version string
}

// App is the root Bubbletea model.
type App struct {
	deps      Deps
	view      view
	back      view // where esc from a form returns to
	login     formModel
	forgot    formModel
	register  formModel
	form      formModel
	resources []resource
	list      listModel
	banner    string // shown above the login form
	syncErr   string
	helpOpen  bool
	width     int
	height    int
	frame     int // logo shimmer animation frame
	now       func() time.Time
}

// NewApp creates the TUI. It opens on the dashboard when a session exists and
// on the login screen otherwise.
func NewApp(d Deps) App {
	if d.Router == nil {
		d.Router = NewRouter()
	}
	a := App{
		deps:      d,
		resources: newResources(d.Stores),
		now:       time.Now,
	}
	a.login = newFormModel(a.loginForm())
	a.forgot = newFormModel(a.forgotForm())
	a.register = newFormModel(registerForm(d.Auth))
	a.list = newListModel(a.resources[0])

	a.view = viewLogin
	if d.Auth.Store().Current().IsAuthenticated() {
		a.view = viewDashboard
	}
	a.deps.Router.setOnLogin(a.view.loginScreen())
	return a
}

func (a App) loginForm() formDef {
	auth := a.deps.Auth
	return formDef{
		id:    "login",
		title: "Sign in",
		fields: []formField{
			{key: "email", label: "email"},
			{key: "password", label: "password", secret: true},
		},
		submit: func(ctx context.Context, v map[string]string) (string, error) {
			sess, err := auth.Login(ctx, v["email"], v["password"])
			if err != nil {
				return "", err
			}
			return "signed in as " + sess.DisplayName(), nil
		},
	}
}

func (a App) forgotForm() formDef {
	auth := a.deps.Auth
	return formDef{
		id:     "forgot",
		title:  "Reset password",
		fields: []formField{{key: "email", label: "email"}},
		submit: func(ctx context.Context, v map[string]string) (string, error) {
			if err := auth.ForgotPassword(ctx, v["email"]); err != nil {
				return "", err
			}
			return "if the account exists, a reset link is on its way", nil
		},
	}
}

func (a App) Init() tea.Cmd {
	if a.view == viewDashboard {
		return tea.Batch(shimmerTickCmd(), a.sync())
	}
	return shimmerTickCmd()
}

func (a App) sync() tea.Cmd {
	set := a.deps.Stores
	return func() tea.Msg {
		return syncedMsg{err: set.FetchAll(context.Background())}
	}
}

func (a App) logout() tea.Cmd {
	auth := a.deps.Auth
	return func() tea.Msg {
		return loggedOutMsg{err: auth.Logout(context.Background())}
	}
}

// setView switches screens and keeps the router's login flag in step.
func (a *App) setView(v view) {
	a.view = v
	a.deps.Router.setOnLogin(v.loginScreen())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1)
		a.list, _ = a.list.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4})
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		if a.view.loginScreen() {
			return a, nil
		}
		a.banner = "session expired, sign in again"
		a.helpOpen = false
		a.login.reset()
		a.setView(viewLogin)
		return a, nil

	case loggedOutMsg:
		a.banner = "signed out"
		if msg.err != nil {
			a.banner = "signed out, but the session could not be cleared: " + msg.err.Error()
		}
		a.login.reset()
		a.setView(viewLogin)
		return a, nil

	case syncedMsg:
		a.syncErr = ""
		if msg.err != nil {
			a.syncErr = firstLine(msg.err)
		}
		return a, nil

	case formSubmittedMsg:
		return a.formSubmitted(msg)

	case openFormMsg:
		a.form = newFormModel(msg.def)
		a.back = a.view
		a.view = viewForm
		return a, nil

	case resourceLoadedMsg, resourceChangedMsg, copyResultMsg:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) formSubmitted(msg formSubmittedMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.id {
	case "login":
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			a.banner = ""
			a.setView(viewDashboard)
			return a, tea.Batch(cmd, a.sync())
		}
	case "forgot":
		a.forgot, cmd = a.forgot.Update(msg)
	case "register":
		a.register, cmd = a.register.Update(msg)
	default:
		a.form, cmd = a.form.Update(msg)
		if msg.err == nil && a.view == viewForm && a.back == viewList {
			a.view = viewList
			a.list, _ = a.list.Update(resourceChangedMsg{name: a.list.res.name(), status: msg.status})
		}
	}
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.helpOpen {
		switch key {
		case "h", "?", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		if key == "ctrl+f" {
			a.forgot.reset()
			a.forgot.status = ""
			a.setView(viewForgot)
			return a, nil
		}
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case viewForgot:
		if key == "esc" {
			a.setView(viewLogin)
			return a, nil
		}
		a.forgot, cmd = a.forgot.Update(msg)
		return a, cmd

	case viewForm, viewRegister:
		if key == "esc" {
			if a.view == viewForm {
				a.view = a.back
			} else {
				a.view = viewDashboard
			}
			return a, nil
		}
		if a.view == viewForm {
			a.form, cmd = a.form.Update(msg)
		} else {
			a.register, cmd = a.register.Update(msg)
		}
		return a, cmd
	}

	// A pending delete confirmation takes the next key.
	if a.view == viewList && a.list.confirm {
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}

	// Signed-in navigation.
	switch key {
	case "q":
		return a, tea.Quit
	case "h", "?":
		a.helpOpen = true
		return a, nil
	case "0":
		a.view = viewDashboard
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i >= len(a.resources) {
			return a, nil
		}
		if a.view == viewList && a.list.res == a.resources[i] {
			return a, nil
		}
		a.list = newListModel(a.resources[i])
		a.list.height = a.height - 4
		a.view = viewList
		return a, nil
	case "R":
		a.register.status = ""
		a.view = viewRegister
		return a, nil
	case "L":
		return a, a.logout()
	case "esc":
		if a.view == viewList {
			a.view = viewDashboard
			return a, nil
		}
	}

	if a.view == viewList {
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	pad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", pad) + logo + "\n"
	if a.deps.Version != "" {
		header += strings.Repeat(" ", pad) + dimStyle.Render("admin "+a.deps.Version)
	}

	var body, help string
	switch a.view {
	case viewLogin:
		if a.banner != "" {
			body = " " + warnStyle.Render(a.banner) + "\n\n"
		}
		body += a.login.View()
		help = helpBar(helpEntry("tab", "next"), helpEntry("enter", "sign in"), helpEntry("ctrl+f", "forgot password"), helpEntry("ctrl+c", "quit"))
	case viewForgot:
		body = a.forgot.View()
		help = helpBar(helpEntry("enter", "send link"), helpEntry("esc", "back"))
	case viewDashboard:
		body = dashboardView(a.deps.Auth.Store().Current(), a.deps.Stores.Counts(), a.now())
		if a.syncErr != "" {
			body += "\n " + errStyle.Render("sync: "+a.syncErr) + "\n"
		}
		help = helpBar(helpEntry("1-9", "lists"), helpEntry("R", "register"), helpEntry("L", "sign out"), helpEntry("h", "help"), helpEntry("q", "quit"))
	case viewList:
		body = a.list.View()
		help = a.list.helpKeys() + "  " + helpEntry("esc", "back")
	case viewForm:
		body = a.form.View()
		help = helpBar(helpEntry("tab", "next"), helpEntry("h/l", "cycle"), helpEntry("ctrl+s", "save"), helpEntry("esc", "cancel"))
	case viewRegister:
		body = a.register.View()
		help = helpBar(helpEntry("tab", "next"), helpEntry("h/l", "cycle"), helpEntry("ctrl+s", "create"), helpEntry("esc", "back"))
	}

	if a.helpOpen {
		body = helpView()
		help = helpBar(helpEntry("esc", "close"))
	}

	tabs := ""
	if !a.view.loginScreen() {
		tabs = a.tabBar()
	}

	// Chrome budget: header(2) + tabs(1) + help(1)
	if a.height > 0 {
		body = truncateToHeight(body, a.height-4)
	}
	body = strings.TrimRight(body, "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabs, body, help)
}

func (a App) tabBar() string {
	parts := []string{tabLabel("0", "Home", a.view == viewDashboard)}
	for i, r := range a.resources {
		active := a.view == viewList && a.list.res == r
		parts = append(parts, tabLabel(fmt.Sprintf("%d", i+1), r.title(), active))
	}
	return " " + strings.Join(parts, "  ")
}

func tabLabel(key, name string, active bool) string {
	if active {
		return accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(name)
	}
	return metaStyle.Render(key) + " " + dimStyle.Render(name)
}

// firstLine shortens a joined error to its first line plus a count.
func firstLine(err error) string {
	lines := strings.Split(err.Error(), "\n")
	if len(lines) == 1 {
		return lines[0]
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return fmt.Sprintf("%s (+%d more)", lines[0], len(joined.Unwrap())-1)
	}
	return lines[0]
}
