package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/config"
	"github.com/offybox/offyadmin/internal/logging"
	"github.com/offybox/offyadmin/internal/session"
	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/internal/store"
	"github.com/offybox/offyadmin/internal/tui"
	"github.com/offybox/offyadmin/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// program is everything a command needs, wired from Config.
type program struct {
	cfg    *config.Config
	log    *zap.Logger
	api    *client.Client
	auth   *session.Manager
	stores *store.Set
	close  func() error
}

func setup(ctx context.Context) (*program, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := storage.Open(storage.Options{
		Backend:       cfg.Storage,
		Dir:           cfg.StateDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	}, log)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(kv, log)
	if err := sessions.Load(ctx); err != nil {
		log.Warn("ignoring unreadable session snapshot", zap.Error(err))
	}
	api := client.New(cfg.APIURL, sessions,
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(log),
	)
	auth := session.NewManager(sessions, api, log)
	if ok, err := auth.Bootstrap(ctx, cfg.Token); err != nil {
		log.Warn("unable to adopt OFFYBOX_TOKEN", zap.Error(err))
	} else if ok {
		log.Info("signed in with OFFYBOX_TOKEN")
	}

	stores := store.NewSet(api, kv, log, store.ParseLocal(cfg.LocalResourceList()))
	if err := stores.LoadAll(ctx); err != nil {
		log.Warn("some snapshots could not be read", zap.Error(err))
	}

	log.Debug("started",
		zap.String("version", version),
		zap.String("api_url", cfg.APIURL),
		zap.String("storage", cfg.Storage),
	)
	return &program{
		cfg:    cfg,
		log:    log,
		api:    api,
		auth:   auth,
		stores: stores,
		close: func() error {
			_ = log.Sync() //nolint:errcheck // best-effort flush
			return closeKV()
		},
	}, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "offyadmin "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	ctx := context.Background()
	p, err := setup(ctx)
	if err != nil {
		return err
	}
	defer p.close() //nolint:errcheck

	if len(args) == 0 {
		return runTUI(p)
	}
	switch args[0] {
	case "login":
		return runLogin(ctx, p, args[1:], stdin, stdout)
	case "logout":
		return runLogout(ctx, p, stdout)
	case "forgot-password":
		return runForgot(ctx, p, args[1:], stdout)
	case "whoami":
		return runWhoami(p, stdout)
	case "sync":
		return runSync(ctx, p, stdout)
	default:
		printHelp(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runTUI(p *program) error {
	router := tui.NewRouter()
	p.api.SetNavigator(router)

	sess := p.auth.Store().Current()
	if sess.IsAuthenticated() && sess.Expired(time.Now()) {
		// The backend decides; a 401 will bring the login screen up.
		p.log.Info("stored session is past its expiry", zap.Time("expires_at", sess.Expiry()))
	}

	app := tui.NewApp(tui.Deps{
		Auth:    p.auth,
		Stores:  p.stores,
		Router:  router,
		Version: version,
	})
	prog := tea.NewProgram(app, tea.WithAltScreen())
	router.Attach(prog)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(ctx context.Context, p *program, args []string, stdin io.Reader, stdout io.Writer) error {
	in := bufio.NewReader(stdin)
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Fprint(stdout, "Email: ")
		email = readLine(in)
	}
	password := os.Getenv("OFFYBOX_PASSWORD")
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		password = readLine(in)
	}

	sess, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return errors.New(client.Message(err))
	}
	fmt.Fprintf(stdout, "Signed in as %s\n", sess.DisplayName())
	return nil
}

func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n') //nolint:errcheck // EOF leaves what was read
	return strings.TrimRight(line, "\r\n")
}

func runLogout(ctx context.Context, p *program, stdout io.Writer) error {
	if !p.auth.Store().Current().IsAuthenticated() {
		fmt.Fprintln(stdout, "Already signed out.")
		return nil
	}
	if err := p.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Signed out.")
	return nil
}

func runForgot(ctx context.Context, p *program, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: offyadmin forgot-password <email>")
	}
	if err := p.auth.ForgotPassword(ctx, args[0]); err != nil {
		return errors.New(client.Message(err))
	}
	fmt.Fprintln(stdout, "If the account exists, a reset link is on its way.")
	return nil
}

func runWhoami(p *program, stdout io.Writer) error {
	sess := p.auth.Store().Current()
	if !sess.IsAuthenticated() {
		printSignedOut(stdout)
		return nil
	}
	name := sess.DisplayName()
	if sess.Email != "" && sess.Email != name {
		name += " <" + sess.Email + ">"
	}
	fmt.Fprintln(stdout, name)
	switch exp := sess.Expiry(); {
	case exp.IsZero():
		fmt.Fprintln(stdout, "session has no expiry")
	case sess.Expired(time.Now()):
		fmt.Fprintf(stdout, "session expired %s\n", exp.Local().Format(time.DateTime))
	default:
		fmt.Fprintf(stdout, "session expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

func runSync(ctx context.Context, p *program, stdout io.Writer) error {
	if !p.auth.Store().Current().IsAuthenticated() {
		printSignedOut(stdout)
		return nil
	}
	err := p.stores.FetchAll(ctx)
	for _, c := range p.stores.Counts() {
		fmt.Fprintf(stdout, "%-16s %d\n", c.Name, c.N)
	}
	if err != nil {
		if client.IsKind(err, client.KindSessionExpired) {
			return errors.New("session expired, run offyadmin login")
		}
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}
