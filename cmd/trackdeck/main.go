package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/trackdeck/trackdeck/internal/config"
	"github.com/trackdeck/trackdeck/internal/credential"
	"github.com/trackdeck/trackdeck/internal/notify"
	"github.com/trackdeck/trackdeck/internal/tui"
	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/realtime"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// readToken returns the auth token using precedence: env var > keyring.
func readToken() string {
	if tok := os.Getenv("TRACKDECK_TOKEN"); tok != "" {
		return tok
	}
	tok, err := credential.Get(credential.TokenKey)
	if err != nil {
		return ""
	}
	return tok
}

// openLogFile creates the log sink under the config dir. The terminal
// belongs to the TUI, so nothing may write to stderr while it runs.
func openLogFile() (io.WriteCloser, error) {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "trackdeck.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("trackdeck " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg)
		case "logout":
			return runLogout()
		}
	}

	token := readToken()
	if token == "" {
		printGreeting()
		return nil
	}

	c := client.New(cfg.ServerURL, token)
	me, err := c.Me(context.Background())
	if err != nil {
		// Only force re-login on actual auth failures (401), not
		// transient errors.
		if client.IsAuthError(err) {
			printGreeting()
			return nil
		}
		return fmt.Errorf("reach server: %w", err)
	}

	logFile, err := openLogFile()
	var logger *slog.Logger
	if err != nil {
		logger = slog.New(slog.DiscardHandler)
	} else {
		defer logFile.Close() //nolint:errcheck
		logger = slog.New(slog.NewTextHandler(logFile, nil))
	}

	mgr := realtime.NewManager(realtime.Config{
		URL:    cfg.RealtimeURL(),
		Logger: logger.With("component", "realtime"),
	})
	alerter := notify.NewDesktopAlerter(cfg, logger.With("component", "alerts"))
	store := notify.NewStore(c, mgr, alerter, logger.With("component", "notify"))
	if err := store.InitializeForUser(context.Background(), me.ID); err != nil {
		// The TUI still works without the initial notification load.
		logger.Warn("notification init failed", "error", err)
	}

	app := tui.NewApp(c, store, mgr, me, version, cfg.Display.PageSize)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Print("password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	c := client.New(cfg.ServerURL, "")
	tok, err := c.Login(context.Background(), username, string(pwBytes))
	if err != nil {
		if client.IsAuthError(err) {
			return fmt.Errorf("invalid username or password")
		}
		return fmt.Errorf("login: %w", err)
	}

	if err := credential.Set(credential.TokenKey, tok.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Printf("logged in as %s\n", tok.User.Username)
	return nil
}

func runLogout() error {
	if err := credential.Delete(credential.TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Println("logged out")
	return nil
}
