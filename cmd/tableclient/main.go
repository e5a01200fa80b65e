package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"holdem-client/internal/client"
	"holdem-client/internal/config"
	"holdem-client/internal/history"
	"holdem-client/internal/lobbyapi"
	"holdem-client/internal/wire"
)

const requestTimeout = 10 * time.Second

type app struct {
	cfg     config.Config
	log     *zap.Logger
	lobby   *lobbyapi.Client
	client  *client.Client
	history history.Service

	creds lobbyapi.Credentials
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		pterm.Error.Printfln("Bad configuration: %v", err)
		os.Exit(1)
	}

	log, err := newLogger()
	if err != nil {
		pterm.Error.Printfln("Failed to init logger: %v", err)
		os.Exit(1)
	}
	defer log.Sync()

	hist, histMode, err := history.NewServiceFromConfig(cfg)
	if err != nil {
		pterm.Error.Printfln("Failed to init history store: %v", err)
		os.Exit(1)
	}
	defer hist.Close()
	log.Info("history store ready", zap.String("mode", histMode))

	lobby, err := lobbyapi.New(cfg.AuthBaseURL)
	if err != nil {
		pterm.Error.Printfln("Bad auth service URL: %v", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		lobby:   lobby,
		history: hist,
	}
	if err := a.run(); err != nil {
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to a file so they never fight the
// terminal UI for the screen.
func newLogger() (*zap.Logger, error) {
	path := strings.TrimSpace(os.Getenv("CLIENT_LOG_PATH"))
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg.Build()
}

func (a *app) run() error {
	pterm.DefaultHeader.WithFullWidth().Println("Holdem Table Client")

	if err := a.login(); err != nil {
		return err
	}
	pterm.Success.Printfln("Logged in as %s", pterm.Cyan(a.creds.Username))

	a.client = client.New(a.cfg, a.log, a.history)
	defer a.client.Close()

	// The renderer owns the screen between prompts; it also drives the
	// token refresh when the server reports an expired credential.
	r := newRenderer(a)
	go r.loop()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	err := a.client.Connect(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to table server: %w", err)
	}
	if err := a.client.Authenticate(a.creds.AccessToken); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	a.showTables()
	return a.commandLoop()
}

func (a *app) login() error {
	username, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Username").Show()
	password, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Password").WithMask("*").Show()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	creds, err := a.lobby.Login(ctx, strings.TrimSpace(username), password)
	if errors.Is(err, lobbyapi.ErrUnauthorized) {
		register, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText("Unknown user or wrong password. Register a new account?").Show()
		if !register {
			return errors.New("login aborted")
		}
		creds, err = a.lobby.Register(ctx, strings.TrimSpace(username), password)
	}
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.creds = creds
	return nil
}

// refreshToken trades the refresh token for a new access token and
// re-authenticates the live connection. Called from the renderer when the
// auth-expired signal fires.
func (a *app) refreshToken() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	creds, err := a.lobby.Refresh(ctx, a.creds.RefreshToken)
	if err != nil {
		pterm.Error.Printfln("Session expired and refresh failed: %v", err)
		return
	}
	a.creds.AccessToken = creds.AccessToken
	if creds.RefreshToken != "" {
		a.creds.RefreshToken = creds.RefreshToken
	}
	if err := a.client.Authenticate(a.creds.AccessToken); err != nil {
		pterm.Error.Printfln("Re-authentication failed: %v", err)
		return
	}
	pterm.Info.Println("Session refreshed")
}

func (a *app) showTables() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	tables, err := a.lobby.ListTables(ctx, a.creds.AccessToken)
	if err != nil {
		pterm.Error.Printfln("Failed to list tables: %v", err)
		return
	}
	renderTables(tables)
}

func (a *app) commandLoop() error {
	pterm.Info.Println(`Commands: tables, join <table> [seat], leave, standup, check, call,
bet <n>, raise <n>, fold, allin, auto [on|off], chat <msg>, hands, ledger,
standings, create <name>, delete <table>, start, give <user> <n>,
take <user> <n>, quit`)

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			a.client.Disconnect()
			pterm.Println("Goodbye.")
			return nil
		}
		if err := a.dispatch(cmd, args); err != nil {
			pterm.Error.Printfln("%v", err)
		}
	}
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "tables":
		a.showTables()
		return nil

	case "join":
		if len(args) < 1 {
			return errors.New("usage: join <table> [seat]")
		}
		seat := -1
		if len(args) >= 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad seat %q", args[1])
			}
			seat = n
		}
		return a.client.JoinTable(args[0], seat)

	case "leave":
		return a.client.LeaveTable()

	case "standup":
		return a.client.StandUp()

	case "check", "call", "fold", "allin":
		action := cmd
		if cmd == "allin" {
			action = wire.ActionAllIn
		}
		return a.client.SendAction(action, 0)

	case "bet", "raise":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s <amount>", cmd)
		}
		amount, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || amount <= 0 {
			return fmt.Errorf("bad amount %q", args[0])
		}
		return a.client.SendAction(cmd, amount)

	case "auto":
		on := !a.client.AutoRespondArmed()
		if len(args) >= 1 {
			on = args[0] == "on"
		}
		if on && !a.client.AutoRespondAvailable() {
			return errors.New("auto-respond needs a live hand")
		}
		a.client.SetAutoRespond(on)
		if on {
			pterm.Info.Println("Auto-respond armed: will check or fold on your next turn")
		} else {
			pterm.Info.Println("Auto-respond off")
		}
		return nil

	case "chat":
		if len(args) == 0 {
			return errors.New("usage: chat <message>")
		}
		return a.client.SendChat(strings.Join(args, " "))

	case "hands":
		return a.showRecentHands()

	case "ledger":
		return a.client.RequestLedger()

	case "standings":
		return a.client.RequestStandings()

	case "create":
		if len(args) < 1 {
			return errors.New("usage: create <name>")
		}
		return a.client.CreateTable(strings.Join(args, " "))

	case "delete":
		if len(args) < 1 {
			return errors.New("usage: delete <table>")
		}
		return a.client.DeleteTable(args[0])

	case "start":
		return a.client.StartGame()

	case "give", "take":
		if len(args) < 2 {
			return fmt.Errorf("usage: %s <user> <amount>", cmd)
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || amount <= 0 {
			return fmt.Errorf("bad amount %q", args[1])
		}
		if cmd == "give" {
			return a.client.GiveChips(args[0], amount)
		}
		return a.client.TakeChips(args[0], amount)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) showRecentHands() error {
	m := a.client.Membership()
	if m.None() {
		return errors.New("join a table first")
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	hands, err := a.history.RecentHands(ctx, m.TableID, 10)
	if err != nil {
		return fmt.Errorf("load hand history: %w", err)
	}
	renderRecentHands(hands)
	return nil
}
