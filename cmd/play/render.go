// cmd/play/render.go
package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jason-s-yu/arcade/internal/models"
	"github.com/jason-s-yu/arcade/internal/notifier"
	"github.com/jason-s-yu/arcade/internal/replication"
)

type commandKind int

const (
	cmdPlay commandKind = iota
	cmdDraw
	cmdCall
	cmdHelp
	cmdQuit
)

type command struct {
	kind  commandKind
	index int
	color models.Color
}

var errUsage = errors.New("commands: p <index> [r|y|g|b], d, c, h, q")

// parseCommand reads one input line. Hand indexes are zero-based as printed.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, errUsage
	}
	switch fields[0] {
	case "p", "play":
		if len(fields) < 2 || len(fields) > 3 {
			return command{}, errUsage
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil || idx < 0 {
			return command{}, fmt.Errorf("bad card index %q", fields[1])
		}
		cmd := command{kind: cmdPlay, index: idx}
		if len(fields) == 3 {
			c, ok := parseColor(fields[2])
			if !ok {
				return command{}, fmt.Errorf("bad color %q", fields[2])
			}
			cmd.color = c
		}
		return cmd, nil
	case "d", "draw":
		return command{kind: cmdDraw}, nil
	case "c", "call", "uno":
		return command{kind: cmdCall}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, errUsage
}

func parseColor(s string) (models.Color, bool) {
	for _, c := range models.PlayColors {
		if s == string(c) || s == string(c)[:1] {
			return c, true
		}
	}
	return "", false
}

// screen serializes output from the input loop, the session listener and
// the notifier listener.
type screen struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *screen) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *screen) event(e notifier.Event) {
	// turn changes are already visible in the rendered view
	if e.Type == notifier.EventYourTurn || e.Type == notifier.EventOpponentTurn {
		return
	}
	s.printf("* %s\n", e.Message)
}

func (s *screen) render(v replication.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := v.State
	fmt.Fprintln(s.out)
	if top, ok := st.Top(); ok {
		fmt.Fprintf(s.out, "Top: %s   Active color: %s   Deck: %d\n", top, st.ActiveColor.Label(), len(st.Deck))
	}
	opp := v.Opponent()
	fmt.Fprintf(s.out, "%s holds %d card(s)", opp.Name, len(opp.Hand))
	if opp.HasCalled {
		fmt.Fprint(s.out, " and has called")
	}
	fmt.Fprintln(s.out)

	me := v.Me()
	fmt.Fprintln(s.out, "Your hand:")
	for i, c := range me.Hand {
		mark := " "
		if st.IsPlayable(c) {
			mark = "*"
		}
		fmt.Fprintf(s.out, " %s[%d] %s\n", mark, i, c)
	}

	if st.Winner == nil && me.MustCall {
		fmt.Fprintln(s.out, "You have one card left: call it with c before the next move.")
	}
	switch {
	case st.Winner != nil && *st.Winner == me.ID:
		fmt.Fprintln(s.out, "You won. q to quit.")
	case st.Winner != nil:
		fmt.Fprintf(s.out, "%s won. q to quit.\n", opp.Name)
	case v.IsMyTurn():
		fmt.Fprint(s.out, "Your move> ")
	case me.MustCall && opp.Bot:
		fmt.Fprintf(s.out, "%s waits for your call. Any other command lets %s move first> ", opp.Name, opp.Name)
	default:
		fmt.Fprintf(s.out, "Waiting for %s...\n", opp.Name)
	}
}
