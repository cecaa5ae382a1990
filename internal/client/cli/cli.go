// Package cli implements the rentalctl commands on top of the client app.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	clientapp "github.com/aussiebroadwan/carhire/internal/client/app"
	"github.com/aussiebroadwan/carhire/internal/session"
	"github.com/aussiebroadwan/carhire/pkg/rentalsdk"
)

// Runner executes one rentalctl invocation.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewApp builds the client. Defaults to clientapp.New with a logger
	// derived from the config.
	NewApp func(cfg clientapp.Config) (*clientapp.App, error)

	stdin *bufio.Reader
}

type command struct {
	summary string
	run     func(ctx context.Context, r *Runner, a *clientapp.App, args []string) error
}

var commands = map[string]command{
	"login":     {"sign in with email and password", runLogin},
	"logout":    {"sign out and forget the stored credential", runLogout},
	"whoami":    {"show the current session", runWhoami},
	"refresh":   {"re-fetch the profile of the signed-in user", runRefresh},
	"set-token": {"sign in with an already issued access token", runSetToken},
	"register":  {"create a renter account", runRegister},
	"vehicles":  {"list vehicles, or show one by id", runVehicles},
}

// Run parses global flags, restores the session and dispatches to the named
// command.
func (r *Runner) Run(ctx context.Context, args []string) error {
	cfg, err := clientapp.LoadConfig()
	if err != nil {
		return err
	}

	flags := pflag.NewFlagSet("rentalctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(r.Stderr)
	flags.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "rental API base URL (env RENTAL_API_URL)")
	flags.StringVar(&cfg.CredentialsFile, "credentials", cfg.CredentialsFile, "credential database file (env RENTAL_CREDENTIALS_FILE)")
	flags.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "per-request timeout (env RENTAL_HTTP_TIMEOUT)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.Usage = func() { r.usage(flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := flags.Args()
	if len(rest) == 0 {
		r.usage(flags)
		return errors.New("no command given")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		r.usage(flags)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	newApp := r.NewApp
	if newApp == nil {
		newApp = func(cfg clientapp.Config) (*clientapp.App, error) { return clientapp.New(cfg, nil) }
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if r.stdin == nil {
		r.stdin = bufio.NewReader(r.Stdin)
	}

	if st := a.Start(ctx); st.Err != nil {
		fmt.Fprintf(r.Stderr, "warning: stored session unreadable, continuing signed out: %v\n", st.Err)
	}
	return cmd.run(ctx, r, a, rest[1:])
}

func (r *Runner) usage(flags *pflag.FlagSet) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.Stderr, "Usage: rentalctl [flags] <command> [args]")
	fmt.Fprintln(r.Stderr, "\nCommands:")
	tw := tabwriter.NewWriter(r.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].summary)
	}
	_ = tw.Flush()
	fmt.Fprintln(r.Stderr, "\nFlags:")
	fmt.Fprint(r.Stderr, flags.FlagUsages())
}

func runLogin(ctx context.Context, r *Runner, a *clientapp.App, args []string) error {
	flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
	flags.SetOutput(r.Stderr)
	email := flags.StringP("email", "e", "", "account email (prompted when omitted)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = promptLine(r.stdin, r.Stderr, "Email: "); err != nil {
			return err
		}
	}
	password, err := promptPassword(r.stdin, r.Stdin, r.Stderr)
	if err != nil {
		return err
	}

	if err := a.Session.Login(ctx, *email, password); err != nil {
		var authErr *session.AuthenticationError
		if errors.As(err, &authErr) {
			return fmt.Errorf("login failed: %s", authErr.Message)
		}
		return err
	}
	return printState(r.Stdout, a.Session.State())
}

func runLogout(ctx context.Context, r *Runner, a *clientapp.App, _ []string) error {
	a.Session.Logout(ctx)
	fmt.Fprintln(r.Stdout, "Signed out.")
	return nil
}

func runWhoami(_ context.Context, r *Runner, a *clientapp.App, _ []string) error {
	return printState(r.Stdout, a.Session.State())
}

func runRefresh(ctx context.Context, r *Runner, a *clientapp.App, _ []string) error {
	if err := a.Session.RefreshProfile(ctx); err != nil {
		return err
	}
	return printState(r.Stdout, a.Session.State())
}

func runSetToken(ctx context.Context, r *Runner, a *clientapp.App, args []string) error {
	var token string
	switch len(args) {
	case 0:
		var err error
		if token, err = promptLine(r.stdin, r.Stderr, "Access token: "); err != nil {
			return err
		}
	case 1:
		token = args[0]
	default:
		return errors.New("usage: rentalctl set-token [token]")
	}

	if err := a.Session.SetCredential(ctx, token); err != nil {
		return err
	}
	return printState(r.Stdout, a.Session.State())
}

func runRegister(ctx context.Context, r *Runner, a *clientapp.App, args []string) error {
	flags := pflag.NewFlagSet("register", pflag.ContinueOnError)
	flags.SetOutput(r.Stderr)
	email := flags.StringP("email", "e", "", "account email")
	name := flags.StringP("name", "n", "", "full name")
	phone := flags.String("phone", "", "phone number")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return errors.New("--email and --name are required")
	}

	password, err := promptPassword(r.stdin, r.Stdin, r.Stderr)
	if err != nil {
		return err
	}

	err = a.API.RegisterRenter(ctx, rentalsdk.RegisterRenterRequest{
		Email:    *email,
		Password: password,
		FullName: *name,
		Phone:    *phone,
	})
	if err != nil {
		var apiErr *rentalsdk.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("registration failed: %s", apiErr.Message)
		}
		return err
	}
	fmt.Fprintf(r.Stdout, "Registered %s. Run `rentalctl login` to sign in.\n", *email)
	return nil
}

func runVehicles(ctx context.Context, r *Runner, a *clientapp.App, args []string) error {
	if len(args) == 1 {
		v, err := a.API.GetVehicle(ctx, args[0])
		if err != nil {
			return apiFailure(err)
		}
		return printVehicles(r.Stdout, []rentalsdk.Vehicle{*v})
	}

	list, err := a.API.ListVehicles(ctx)
	if err != nil {
		return apiFailure(err)
	}
	return printVehicles(r.Stdout, list)
}

// apiFailure turns a rejected credential into a hint to sign in again.
func apiFailure(err error) error {
	if rentalsdk.IsUnauthorized(err) {
		return errors.New("not signed in or session expired, run `rentalctl login`")
	}
	return err
}

func printState(w io.Writer, st session.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Status:\t%s\n", st.Status)
	if st.Authenticated() {
		fmt.Fprintf(tw, "User ID:\t%s\n", st.UserID)
		fmt.Fprintf(tw, "Name:\t%s\n", st.Profile.Name)
		fmt.Fprintf(tw, "Email:\t%s\n", st.Profile.Email)
		fmt.Fprintf(tw, "Role:\t%s\n", st.Profile.Role)
		if st.Profile.Phone != "" {
			fmt.Fprintf(tw, "Phone:\t%s\n", st.Profile.Phone)
		}
	}
	return tw.Flush()
}

func printVehicles(w io.Writer, list []rentalsdk.Vehicle) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVEHICLE\tSEATS\tSTATION\tPER DAY\tAVAILABLE")
	for _, v := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			v.ID,
			strings.TrimSpace(fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)),
			v.Seats,
			v.Station,
			fmt.Sprintf("$%d.%02d", v.DailyRateCents/100, v.DailyRateCents%100),
			yesNo(v.Available),
		)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
