package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/alertrip/alertrip/apiclient"
	"github.com/alertrip/alertrip/browse"
	"github.com/alertrip/alertrip/clientstore"
	"github.com/alertrip/alertrip/ledger"
	"github.com/alertrip/alertrip/models"
	"github.com/alertrip/alertrip/notify"
)

// Keys in the client state file, next to ledger.StoreKey
const (
	tokenKey   = "admin_token"
	consentKey = "cookie_consent"
)

const usage = `usage: ripctl [-api URL] [-state FILE] <command> [args]

commands:
  login <password>                 store an admin session token
  logout                           forget the admin session token
  consent [accept|revoke]          show or change storage consent
  candle [-check] <urlname>        light or blow out a candle
  browse [-kind K] [-search S] [-page N]
                                   page through people, candles or articles
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		slog.Error("ripctl failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("ripctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", envOr("ALERTRIP_API", "http://localhost:3318"), "API base URL")
	statePath := fs.String("state", envOr("RIPCTL_STATE", "ripctl.db"), "client state file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	store, err := clientstore.OpenSQLite(*statePath)
	if err != nil {
		return err
	}
	defer store.Close()

	token, _, err := store.Get(tokenKey)
	if err != nil {
		return err
	}
	client, err := apiclient.New(*apiURL, apiclient.WithToken(token))
	if err != nil {
		return err
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, client, store, cmdArgs, stdout)
	case "logout":
		if err := store.Set(tokenKey, "", 0); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "logged out")
		return nil
	case "consent":
		return cmdConsent(store, cmdArgs, stdout)
	case "candle":
		return cmdCandle(ctx, client, store, cmdArgs, stdout)
	case "browse":
		return cmdBrowse(ctx, client, cmdArgs, stdin, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func cmdLogin(ctx context.Context, client *apiclient.Client, store *clientstore.SQLite, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: login takes exactly one password", errUsage)
	}

	token, err := client.Login(ctx, args[0])
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := store.Set(tokenKey, token, ledger.StoreTTL); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "logged in as admin")
	return nil
}

func hasConsent(store *clientstore.SQLite) bool {
	v, ok, err := store.Get(consentKey)
	return err == nil && ok && v == "true"
}

func cmdConsent(store *clientstore.SQLite, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		var err error
		switch args[0] {
		case "accept":
			err = store.Set(consentKey, "true", ledger.StoreTTL)
		case "revoke":
			err = store.Set(consentKey, "", 0)
		default:
			return fmt.Errorf("%w: consent takes accept or revoke", errUsage)
		}
		if err != nil {
			return err
		}
	}

	if hasConsent(store) {
		fmt.Fprintln(stdout, "storage consent: accepted")
	} else {
		fmt.Fprintln(stdout, "storage consent: not given")
	}
	return nil
}

func cmdCandle(ctx context.Context, client *apiclient.Client, store *clientstore.SQLite, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("candle", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	check := fs.Bool("check", false, "only show whether this client has lit a candle")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: candle takes one urlname", errUsage)
	}

	person, err := client.Person(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", fs.Arg(0), err)
	}

	l := ledger.New(ledger.NewContributionStore(store), client,
		ledger.WithConsent(func() bool { return hasConsent(store) }),
		ledger.WithNotifier(notify.Func(func(_ context.Context, err error) {
			fmt.Fprintf(stdout, "! %v\n", err)
		})),
	)
	l.Seed(person.URLName, person.Candles)

	if *check {
		printCandle(stdout, person, l.IsLit(person.URLName), person.Candles)
		return nil
	}

	out, err := l.Toggle(ctx, person.URLName, client.IsPrivileged())
	if errors.Is(err, ledger.ErrNoConsent) {
		return fmt.Errorf("%w: run \"ripctl consent accept\" first", err)
	}
	if err != nil {
		// Already reported; the local choice stands
		fmt.Fprintf(stdout, "candle %s locally, server not updated\n", litWord(out.Lit))
		return nil
	}

	count, _ := l.Count(person.URLName)
	printCandle(stdout, person, out.Lit, count)
	return nil
}

func litWord(lit bool) string {
	if lit {
		return "lit"
	}
	return "out"
}

func printCandle(w io.Writer, p models.Person, lit bool, count int) {
	fmt.Fprintf(w, "%s (added %s)\n", p.Fullname, humanize.Time(p.CreatedAt))
	fmt.Fprintf(w, "your candle: %s\n", litWord(lit))
	fmt.Fprintf(w, "candles: %s\n", humanize.Comma(int64(count)))
}

// listPath is where each list lives on the site
func listPath(kind string) (string, error) {
	switch kind {
	case models.KindPeople:
		return "/", nil
	case models.KindCandles:
		return "/candles", nil
	case models.KindArticles:
		return "/news", nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", errUsage, kind)
}

func cmdBrowse(ctx context.Context, client *apiclient.Client, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	kind := fs.String("kind", models.KindCandles, "people, candles or articles")
	search := fs.String("search", "", "search term")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	path, err := listPath(*kind)
	if err != nil {
		return err
	}

	// Only flags that were given end up in the starting URL
	query := url.Values{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "search":
			query.Set("search", *search)
		case "page":
			query.Set("page", strconv.Itoa(*page))
		}
	})
	loc, err := browse.NewURLLocation((&url.URL{Path: path, RawQuery: query.Encode()}).String())
	if err != nil {
		return err
	}

	ctrl := browse.New(*kind, client, loc, browse.WithNotifier(notify.Func(func(_ context.Context, err error) {
		fmt.Fprintf(stdout, "! %v\n", err)
	})))

	show := func(err error) {
		switch {
		case errors.Is(err, browse.ErrInvalidPage):
			fmt.Fprintln(stdout, err)
			return
		case err != nil:
			// the notifier already printed the failure
			fmt.Fprintln(stdout, "(last loaded page)")
		}
		printPage(stdout, ctrl, loc)
	}

	show(ctrl.Load(ctx))

	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		st := ctrl.State()

		switch cmd {
		case "q":
			return nil
		case "n":
			if st.Page >= st.TotalPages {
				fmt.Fprintln(stdout, "already on the last page")
				continue
			}
			err = ctrl.SetPage(ctx, st.Page+1)
		case "p":
			if st.Page <= 1 {
				fmt.Fprintln(stdout, "already on the first page")
				continue
			}
			err = ctrl.SetPage(ctx, st.Page-1)
		case "s":
			err = ctrl.SetSearch(ctx, strings.TrimSpace(arg))
		case "g":
			n, convErr := strconv.Atoi(strings.TrimSpace(arg))
			if convErr != nil {
				fmt.Fprintln(stdout, "g takes a page number")
				continue
			}
			err = ctrl.SetPage(ctx, n)
		default:
			fmt.Fprintln(stdout, "commands: n (next), p (previous), s <term> (search), g <page> (go to), q (quit)")
			continue
		}

		show(err)
	}
}

// printPage lists the items with the page they were fetched for, which lags
// the requested page after a failed fetch
func printPage(w io.Writer, ctrl *browse.Controller, loc *browse.URLLocation) {
	st := ctrl.State()
	if st.ItemsPage == 0 {
		fmt.Fprintf(w, "nothing loaded  [%s]\n", loc.String())
		return
	}

	items := ctrl.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "no results")
	}
	for i, item := range items {
		n := (st.ItemsPage-1)*st.PageSize + i + 1
		if ctrl.Kind() == models.KindArticles {
			fmt.Fprintf(w, "%4d. %s\n", n, item.Title)
			continue
		}
		fmt.Fprintf(w, "%4d. %-32s %8s  %s\n", n, item.Title, humanize.Comma(int64(item.Candles)), item.Ref)
	}
	fmt.Fprintf(w, "page %d of %d, %s results  [%s]\n",
		st.ItemsPage, st.TotalPages, humanize.Comma(int64(st.TotalCount)), loc.String())
}
