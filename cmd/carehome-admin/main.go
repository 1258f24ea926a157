package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/carehaven/carehome-admin/config"
	"github.com/carehaven/carehome-admin/internal/adapters/filestore"
	"github.com/carehaven/carehome-admin/internal/backend"
	"github.com/carehaven/carehome-admin/internal/bootstrap"
	"github.com/carehaven/carehome-admin/internal/service"
	"github.com/spf13/afero"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

// commandContext carries what every command needs. Ctx already names the CLI
// session key, so backend calls pick up its bearer token.
type commandContext struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Config   config.AppConfig
	Out      io.Writer
	In       io.Reader
	Sessions *service.SessionService
	Auth     *service.AuthService
	Backends bootstrap.Backends
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to the shell
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_ = printUsage(stderr)
		return 2
	}

	name := args[0]
	cmd, ok := commands()[name]
	if !ok {
		_ = writef(stderr, "unknown command %q\n\n", name)
		_ = printUsage(stderr)
		return 2
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(stderr, "load config: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Log.Level}))

	cmdCtx, err := newCommandContext(ctx, commandDeps{
		Config: cfg,
		Fs:     afero.NewOsFs(),
		Out:    stdout,
		In:     os.Stdin,
		Logger: logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "initialize CLI", "error", err)
		return 1
	}

	if err := cmd.run(cmdCtx, args[1:]); err != nil {
		logger.ErrorContext(ctx, "command failed", "command", name, "error", err)
		return 1
	}
	return 0
}

type commandDeps struct {
	Config config.AppConfig
	Fs     afero.Fs
	Out    io.Writer
	In     io.Reader
	Logger *slog.Logger
}

// newCommandContext opens the session file store and the backend clients.
// The clients keep a cookie jar so backend session cookies survive between
// calls of one command.
func newCommandContext(ctx context.Context, deps commandDeps) (*commandContext, error) {
	store, err := filestore.NewSessionStore(deps.Fs, deps.Config.CLI.Dir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var sessions *service.SessionService
	backends, err := bootstrap.BuildBackends(bootstrap.BackendDeps{
		Config: deps.Config.Backend,
		Tokens: backend.TokenFunc(func(ctx context.Context) string {
			return sessions.Token(ctx)
		}),
		CookieJar: true,
		Logger:    deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	sessions = service.NewSessionService(service.SessionServiceOptions{
		Store:   store,
		Auth:    backends.Auth,
		Company: backends.Company,
		Config:  service.SessionConfig{TTL: deps.Config.Session.TTL},
		Logger:  deps.Logger,
	})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Backend:  backends.Auth,
		Users:    backends.Users,
		Sessions: sessions,
	})

	return &commandContext{
		Ctx:      service.ContextWithSessionID(ctx, deps.Config.CLI.SessionKey),
		Logger:   deps.Logger,
		Config:   deps.Config,
		Out:      deps.Out,
		In:       deps.In,
		Sessions: sessions,
		Auth:     auth,
		Backends: backends,
	}, nil
}

// sessionKey is the id the CLI session is persisted under.
func (c *commandContext) sessionKey() string {
	return service.SessionIDFromContext(c.Ctx)
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in with email and password and persist the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Discard the persisted session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in operator",
			run:         runWhoami,
		},
		"company": {
			name:        "company",
			description: "Show company information",
			run:         runCompany,
		},
		"users": {
			name:        "users",
			description: "List users (-role, -active)",
			run:         runUsers,
		},
		"documents": {
			name:        "documents",
			description: "List documents (-type, -active)",
			run:         runDocuments,
		},
		"care-homes": {
			name:        "care-homes",
			description: "List care homes (super admin)",
			run:         runCareHomes,
		},
		"plans": {
			name:        "plans",
			description: "List subscription plans",
			run:         runPlans,
		},
		"residents": {
			name:        "residents",
			description: "List resident profiles",
			run:         runResidents,
		},
		"caregivers": {
			name:        "caregivers",
			description: "List caregiver profiles",
			run:         runCaregivers,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: carehome-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
