// cmd/play/main.go

// cmd/play is a terminal client. With -bot it plays the local bot offline;
// otherwise it creates or joins a lobby on the server and plays through the
// relay socket.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/arcade/internal/cache"
	"github.com/jason-s-yu/arcade/internal/config"
	"github.com/jason-s-yu/arcade/internal/database"
	"github.com/jason-s-yu/arcade/internal/lobby"
	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/notifier"
	"github.com/jason-s-yu/arcade/internal/replication"
	"github.com/jason-s-yu/arcade/internal/transport"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type options struct {
	server   string
	name     string
	username string
	password string
	bot      bool
	create   bool
	join     string
	handSize int
	record   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.server, "server", "http://localhost:8080", "lobby server base URL")
	flag.StringVar(&opts.name, "name", "Player", "display name for a guest identity")
	flag.StringVar(&opts.username, "user", "", "registered username (guest when empty)")
	flag.StringVar(&opts.password, "password", "", "password for -user (prompted when empty)")
	flag.BoolVar(&opts.bot, "bot", false, "play the bot offline")
	flag.BoolVar(&opts.create, "create", false, "create a lobby and wait for a joiner")
	flag.StringVar(&opts.join, "join", "", "id of the lobby to join")
	flag.IntVar(&opts.handSize, "hand", 0, "starting hand size (default rules when 0)")
	flag.BoolVar(&opts.record, "record", false, "report results and actions to Postgres and Redis")
	flag.Parse()

	cfg := config.Load()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("PLAY_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, opts options, cfg config.Config, logger *logrus.Logger) error {
	scr := &screen{out: os.Stdout}
	sessionOpts := []replication.SessionOption{
		replication.WithLogger(logrus.NewEntry(logger)),
		replication.WithNotifier(notifier.New(
			notifier.WithDisplayDuration(cfg.NoticeDuration),
			notifier.WithListener(scr.event),
		)),
		replication.WithStateListener(scr.render),
	}
	if opts.record {
		sessionOpts = append(sessionOpts, recorders(ctx, cfg, logger)...)
	}

	var rules map[string]interface{}
	if opts.handSize > 0 {
		rules = map[string]interface{}{"handSize": opts.handSize}
	}

	var s *replication.Session
	switch {
	case opts.bot:
		me := models.Identity{ID: uuid.New(), Name: opts.name}
		l := models.Lobby{
			ID:           uuid.New(),
			HostUserID:   me.ID,
			HostName:     me.Name,
			JoinerUserID: uuid.New(),
			JoinerName:   lobby.BotName,
			JoinerIsBot:  true,
			Rules:        rules,
			CreatedAt:    time.Now(),
		}
		s = replication.NewSession(l.ID, me, nil, sessionOpts...)
		if _, err := s.Start(ctx, l); err != nil {
			return err
		}

	case opts.create || opts.join != "":
		if opts.username != "" && opts.password == "" {
			pw, err := promptPassword(scr)
			if err != nil {
				return err
			}
			opts.password = pw
		}
		api := newAPIClient(opts.server)
		me, err := api.login(ctx, opts.name, opts.username, opts.password)
		if err != nil {
			return err
		}
		relay := transport.NewWSRelay(opts.server, api.token, logrus.NewEntry(logger))

		if opts.create {
			l, err := api.createLobby(ctx, rules)
			if err != nil {
				return err
			}
			s = replication.NewSession(l.ID, me, relay, sessionOpts...)
			if err := s.Join(ctx); err != nil {
				return err
			}
			scr.printf("Lobby %s created. Waiting for an opponent to join...\n", l.ID)
			l, err = api.waitForJoiner(ctx, l.ID, 500*time.Millisecond)
			if err != nil {
				return err
			}
			scr.printf("%s joined.\n", l.JoinerName)
			if _, err := s.Start(ctx, l); err != nil {
				return err
			}
		} else {
			id, err := uuid.Parse(opts.join)
			if err != nil {
				return fmt.Errorf("bad lobby id: %w", err)
			}
			l, err := api.joinLobby(ctx, id)
			if err != nil {
				return err
			}
			s = replication.NewSession(l.ID, me, relay, sessionOpts...)
			if err := s.Join(ctx); err != nil {
				return err
			}
			scr.printf("Joined %s's lobby. Waiting for the deal...\n", l.HostName)
		}

	default:
		flag.Usage()
		return errors.New("one of -bot, -create or -join is required")
	}
	defer s.Leave()

	return readMoves(ctx, s, scr)
}

// promptPassword reads the password for -user without echoing it.
func promptPassword(scr *screen) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("-password is required when stdin is not a terminal")
	}
	scr.printf("Password: ")
	pw, err := term.ReadPassword(fd)
	scr.printf("\n")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}

// recorders wires the statistics sink and the historian queue when their
// backends answer.
func recorders(ctx context.Context, cfg config.Config, logger *logrus.Logger) []replication.SessionOption {
	var out []replication.SessionOption
	if err := database.ConnectDB(ctx, cfg.Postgres); err != nil {
		logger.Warnf("results not recorded: %v", err)
	} else {
		out = append(out, replication.WithStatsSink(database.StatsSink{}))
	}
	if err := cache.ConnectRedis(cfg.Redis); err != nil {
		logger.Warnf("actions not logged: %v", err)
	} else {
		out = append(out, replication.WithActionLog(cache.NewActionQueue(cache.Rdb, cfg.Redis.QueueName)))
	}
	return out
}

func readMoves(ctx context.Context, s *replication.Session, scr *screen) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			lines <- in.Text()
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		cmd, err := parseCommand(line)
		if err != nil {
			scr.printf("%v\n", err)
			continue
		}
		switch cmd.kind {
		case cmdQuit:
			return nil
		case cmdHelp:
			scr.printf("%v\n", errUsage)
			continue
		}

		// rejected moves are already reported by the notifier
		if err := apply(ctx, s, cmd); errors.Is(err, replication.ErrNoGame) {
			scr.printf("No game yet.\n")
		}
	}
}

func apply(ctx context.Context, s *replication.Session, cmd command) error {
	switch cmd.kind {
	case cmdDraw:
		return s.Draw(ctx)
	case cmdCall:
		return s.Call(ctx)
	}

	view, ok := s.View()
	if !ok {
		return replication.ErrNoGame
	}
	hand := view.Me().Hand
	if cmd.index >= len(hand) {
		return s.Play(ctx, uuid.Nil, cmd.color)
	}
	return s.Play(ctx, hand[cmd.index].ID, cmd.color)
}
