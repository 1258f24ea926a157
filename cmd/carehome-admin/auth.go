package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
	apperrors "github.com/carehaven/carehome-admin/internal/errors"
)

// passwordEnv lets scripts sign in without a prompt.
const passwordEnv = "CAREHOME_PASSWORD"

var errNotSignedIn = errors.New("not signed in; run `carehome-admin login` first")

type loginOptions struct {
	Email    string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Operator email (required)")
	fs.StringVar(&opts.Password, "password", "", "Password; defaults to $"+passwordEnv+" or a prompt")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		return loginOptions{}, errors.New("--email is required")
	}
	return opts, nil
}

func runLogin(ctx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}
	if opts.Password == "" {
		opts.Password = os.Getenv(passwordEnv)
	}
	if opts.Password == "" {
		if opts.Password, err = promptPassword(ctx); err != nil {
			return err
		}
	}

	sess, err := ctx.Auth.SignInAs(ctx.Ctx, ctx.sessionKey(), domainauth.Credentials{Email: opts.Email, Password: opts.Password})
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return writef(ctx.Out, "Signed in as %s (%s)\n", sess.Email, roleLabel(sess.Role))
}

func promptPassword(ctx *commandContext) (string, error) {
	if err := writef(ctx.Out, "Password: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(ctx.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func runLogout(ctx *commandContext, _ []string) error {
	if err := ctx.Sessions.Clear(ctx.Ctx, ctx.sessionKey()); err != nil {
		return err
	}
	return writeln(ctx.Out, "Signed out")
}

func parseWhoamiFlags(args []string) (bool, error) {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var refresh bool
	fs.BoolVar(&refresh, "refresh", false, "Reload credentials from the backend session endpoint")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	return refresh, nil
}

func runWhoami(ctx *commandContext, args []string) error {
	refresh, err := parseWhoamiFlags(args)
	if err != nil {
		return err
	}
	sess, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if refresh {
		if sess, err = ctx.Sessions.FetchAuthData(ctx.Ctx, ctx.sessionKey()); err != nil {
			return handleBackendError(ctx, err)
		}
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Email", sess.Email},
		{"User ID", sess.UserID},
		{"Role", roleLabel(sess.Role)},
		{"Expires", sess.ExpiresAt.Local().Format(time.RFC1123)},
	}
	for _, row := range rows {
		if err := writef(w, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write %s: %w", strings.ToLower(row[0]), err)
		}
	}
	return w.Flush()
}

func runCompany(ctx *commandContext, _ []string) error {
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	info, err := ctx.Sessions.FetchCompanyData(ctx.Ctx, ctx.sessionKey())
	if err != nil {
		return handleBackendError(ctx, err)
	}
	if info == nil {
		return writeln(ctx.Out, "No company information on file")
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Name", info.Name},
		{"Registration", info.RegistrationNumber},
		{"Email", info.Email},
		{"Phone", info.Phone},
		{"Address", info.Address},
		{"Website", info.Website},
	}
	for _, row := range rows {
		if err := writef(w, "%s\t%s\n", row[0], dash(row[1])); err != nil {
			return fmt.Errorf("write %s: %w", strings.ToLower(row[0]), err)
		}
	}
	return w.Flush()
}

// requireSession loads the persisted session and fails when it holds no token.
func requireSession(ctx *commandContext) (domainauth.Session, error) {
	sess, err := ctx.Sessions.Get(ctx.Ctx, ctx.sessionKey())
	if err != nil {
		return sess, err
	}
	if !sess.IsAuthenticated() {
		return sess, errNotSignedIn
	}
	return sess, nil
}

// handleBackendError discards the session when the backend rejects its token.
func handleBackendError(ctx *commandContext, err error) error {
	if apperrors.IsUnauthorized(err) {
		if cerr := ctx.Sessions.Clear(ctx.Ctx, ctx.sessionKey()); cerr != nil {
			ctx.Logger.WarnContext(ctx.Ctx, "clear rejected session", "error", cerr)
		}
		return fmt.Errorf("session expired; run `carehome-admin login` again: %w", err)
	}
	return err
}

func roleLabel(r domainauth.Role) string {
	switch r {
	case domainauth.RoleSuperAdmin:
		return "super admin"
	case domainauth.RoleAdmin:
		return "admin"
	default:
		return "guest"
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
