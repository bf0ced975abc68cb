// Package cli implements travelctl, a command-line client for the travel API.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/travelog/travelog/internal/client"
	"github.com/travelog/travelog/internal/model"
)

const usage = `usage: travelctl [-api URL] [-session PATH] [-v] <command> [args]

commands:
  health                      check that the API is reachable
  login [-email E] [-password P]
  logout
  refresh                     swap the session token for a new one
  whoami                      show the logged-in user
  travels list
  travels get ID
  travels create -name N -travel T -date-in D -date-out D -status S
  travels update ID [-name N] [-travel T] [-date-in D] [-date-out D] [-status S]
  travels delete ID
`

// errUsage marks a command line that could not be parsed.
var errUsage = errors.New("invalid usage")

// App is one travelctl invocation.
type App struct {
	api     *client.Client
	session *client.Session
	logger  *slog.Logger

	stdin  io.Reader
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// Run executes travelctl with args (without the program name) and returns
// the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("travelctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := fs.String("api", cfg.APIURL, "API base URL")
	sessionDB := fs.String("session", cfg.SessionDB, "session database path")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	store, err := client.OpenSQLiteStore(ctx, *sessionDB)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer store.Close()

	api := client.New(*apiURL)
	session := client.NewSession(api, client.NewAuthStore(store), logger)
	if _, err := session.Restore(ctx); err != nil {
		logger.Warn("could not restore session", "error", err)
	}

	app := &App{
		api:     api,
		session: session,
		logger:  logger,
		stdin:   stdin,
		in:      bufio.NewReader(stdin),
		out:     stdout,
		errOut:  stderr,
	}

	if err := app.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
			return 2
		}
		printError(stderr, err)
		return 1
	}
	return 0
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "health":
		return a.health(ctx)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "refresh":
		return a.refresh(ctx)
	case "whoami", "me":
		return a.whoami(ctx)
	case "travels":
		if len(args) == 0 {
			return errUsage
		}
		return a.travels(ctx, args[0], args[1:])
	default:
		return errUsage
	}
}

func (a *App) health(ctx context.Context) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", h.Status, h.Timestamp)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if !a.session.RequireGuest() {
		fmt.Fprintf(a.out, "already logged in as %s\n", a.session.User().Email)
		return nil
	}

	var err error
	if *email == "" {
		if *email, err = prompt(a.in, a.errOut, "Email"); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = promptPassword(a.in, a.errOut, a.stdin); err != nil {
			return err
		}
	}

	if err := a.session.Login(ctx, client.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", a.session.User().Email)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if !a.session.RequireAuth() {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) refresh(ctx context.Context) error {
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "token refreshed")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	return a.session.Do(ctx, func(ctx context.Context, token string) error {
		res, err := a.api.Me(ctx, token)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d\t%s\n", res.Data.ID, res.Data.Email)
		return nil
	})
}

func (a *App) travels(ctx context.Context, sub string, args []string) error {
	switch sub {
	case "list":
		return a.session.Do(ctx, func(ctx context.Context, token string) error {
			res, err := a.api.ListTravels(ctx, token)
			if err != nil {
				return err
			}
			printTravels(a.out, res.Data)
			return nil
		})
	case "get":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return a.session.Do(ctx, func(ctx context.Context, token string) error {
			res, err := a.api.GetTravel(ctx, token, id)
			if err != nil {
				return err
			}
			return printJSON(a.out, res.Data)
		})
	case "create":
		return a.createTravel(ctx, args)
	case "update":
		return a.updateTravel(ctx, args)
	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return a.session.Do(ctx, func(ctx context.Context, token string) error {
			res, err := a.api.DeleteTravel(ctx, token, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.Message)
			return nil
		})
	default:
		return errUsage
	}
}

// travelFlags registers the travel field flags on fs.
func travelFlags(fs *flag.FlagSet) map[string]*string {
	return map[string]*string{
		"name":     fs.String("name", "", "travel name"),
		"travel":   fs.String("travel", "", "destination"),
		"date-in":  fs.String("date-in", "", "departure date"),
		"date-out": fs.String("date-out", "", "return date"),
		"status":   fs.String("status", "", "status"),
	}
}

func (a *App) createTravel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fields := travelFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	input := client.TravelInput{
		Name:    *fields["name"],
		Travel:  *fields["travel"],
		DateIn:  *fields["date-in"],
		DateOut: *fields["date-out"],
		Status:  *fields["status"],
	}

	// Creation does not require a session; send the token when there is one.
	res, err := a.api.CreateTravel(ctx, a.session.Token(), input)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	return printJSON(a.out, res.Data)
}

func (a *App) updateTravel(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id, err := parseID(args[:1])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fields := travelFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	// Only flags given on the command line are sent.
	set := make(map[string]*string)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = fields[f.Name]
	})
	patch := client.TravelPatch{
		Name:    set["name"],
		Travel:  set["travel"],
		DateIn:  set["date-in"],
		DateOut: set["date-out"],
		Status:  set["status"],
	}

	return a.session.Do(ctx, func(ctx context.Context, token string) error {
		res, err := a.api.UpdateTravel(ctx, token, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, res.Message)
		return printJSON(a.out, res.Data)
	})
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid travel id %q", args[0])
	}
	return id, nil
}

func printTravels(w io.Writer, travels []model.Travel) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTRAVEL\tDATE IN\tDATE OUT\tSTATUS")
	for _, t := range travels {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Destination, t.DateIn, t.DateOut, t.Status)
	}
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printError(w io.Writer, err error) {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		fmt.Fprintln(w, "error:", err)
		return
	}

	fmt.Fprintf(w, "error: %s (%s)\n", apiErr.Message, apiErr.Code)
	for _, field := range slices.Sorted(maps.Keys(apiErr.Fields)) {
		for _, msg := range apiErr.Fields[field] {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
	if apiErr.Detail != "" {
		fmt.Fprintln(w, "  detail:", apiErr.Detail)
	}
}
