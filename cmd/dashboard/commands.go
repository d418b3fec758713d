package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/dashboard"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
)

type sessionControl interface {
	Add(matchID string) (match.Match, error)
	Remove(matchID string) bool
	Refresh(ctx context.Context)
	Games() []match.Sport
	Dashboard() match.Partition
	Selection() *dashboard.Selection
}

// runCommands reads one command per line until quit, EOF or ctx ends.
func runCommands(ctx context.Context, in io.Reader, out io.Writer, session sessionControl, renderer *dashboard.Renderer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := execute(ctx, out, line, session, renderer); quit {
				return
			}
		}
	}
}

func execute(ctx context.Context, out io.Writer, line string, session sessionControl, renderer *dashboard.Renderer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true
	case "games", "all":
		_ = renderer.RenderGames(out, session.Games(), session.Selection())
	case "show", "dashboard":
		_ = renderer.RenderDashboard(out, session.Dashboard())
	case "add":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: add <match id>")
			return false
		}
		for _, matchID := range fields[1:] {
			m, err := session.Add(matchID)
			if err != nil {
				fmt.Fprintf(out, "cannot add %s: %v\n", matchID, err)
				continue
			}
			fmt.Fprintf(out, "added %s (%s)\n", m.ID, m.Name)
		}
	case "remove", "rm":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: remove <match id>")
			return false
		}
		for _, matchID := range fields[1:] {
			if session.Remove(matchID) {
				fmt.Fprintf(out, "removed %s\n", matchID)
			} else {
				fmt.Fprintf(out, "%s is not on the dashboard\n", matchID)
			}
		}
	case "refresh", "r":
		session.Refresh(ctx)
		fmt.Fprintln(out, "refreshing")
	case "help", "?":
		fmt.Fprintln(out, "commands: games, show, add <id>, remove <id>, refresh, quit")
	default:
		fmt.Fprintf(out, "unknown command %q\n", fields[0])
	}
	return false
}

func redraw(ctx context.Context, out io.Writer, renderer *dashboard.Renderer, session sessionControl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(out, "\033[H\033[2J")
			_ = renderer.RenderDashboard(out, session.Dashboard())
		}
	}
}
