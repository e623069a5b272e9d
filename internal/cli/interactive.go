package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/supportkit/pathfinder"
	"github.com/supportkit/pathfinder/internal/presentation/tui"
	"github.com/supportkit/pathfinder/pkg/navigator"
	"github.com/supportkit/pathfinder/pkg/session"
)

// Interactive commands. Anything else is read as an option number or id.
const (
	cmdBack     = "b"
	cmdReset    = "r"
	cmdGenerate = "g"
	cmdQuit     = "q"
)

// InteractiveOption configures RunInteractive.
type InteractiveOption func(*interactive)

type interactive struct {
	manager   *session.Manager
	sessionID string
}

// WithSession resumes the session id from manager and saves it after every step.
func WithSession(manager *session.Manager, id string) InteractiveOption {
	return func(i *interactive) {
		i.manager = manager
		i.sessionID = id
	}
}

// RunInteractive drives one navigator from line based input until quit, EOF or ctx is done.
func RunInteractive(ctx context.Context, in io.Reader, eng *pathfinder.Engine, view *tui.View, prompt io.Writer, opts ...InteractiveOption) error {
	var cfg interactive
	for _, opt := range opts {
		opt(&cfg)
	}

	nav := eng.Navigator()
	if cfg.manager != nil {
		s, err := cfg.manager.LoadOrCreate(ctx, cfg.sessionID)
		if err != nil {
			return fmt.Errorf("failed to resume session %s: %w", cfg.sessionID, err)
		}
		nav = eng.Restore(*s)
	}
	save := func() error {
		if cfg.manager == nil {
			return nil
		}
		return saveSession(ctx, cfg.manager, cfg.sessionID, nav)
	}

	roots := eng.Graph().Roots()
	scanner := bufio.NewScanner(in)

	view.Print(nav.State(), roots)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(prompt, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			view.Print(nav.State(), roots)
			continue
		case cmdQuit, "quit", "exit":
			return nil
		case cmdBack:
			if !nav.State().CanStepBack {
				view.Message("Already at the first step. Use [r] to return to the categories.")
				continue
			}
			nav.Back()
		case cmdReset:
			nav.Reset()
		case cmdGenerate:
			if len(nav.Path()) == 0 {
				view.Message("Choose a category first.")
				continue
			}
			view.Message("Generating script...")
			if out := eng.Generate(ctx, nav); out.Stale {
				view.Message("The step changed while generating; the script was discarded.")
			}
		default:
			id, ok := resolveChoice(input, tui.Choices(nav.State(), roots))
			if !ok {
				view.Message(fmt.Sprintf("Unknown option %q.", input))
				continue
			}
			nav.Select(id)
		}
		if err := save(); err != nil {
			return err
		}
		view.Print(nav.State(), roots)
	}
}

func saveSession(ctx context.Context, m *session.Manager, id string, nav *navigator.Navigator) error {
	snap := nav.Snapshot()
	snap.ID = id
	if err := m.Save(ctx, id, &snap); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// resolveChoice maps a 1-based option number or an option id to an id from choices.
func resolveChoice(input string, choices []string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(choices) {
			return "", false
		}
		return choices[n-1], true
	}
	for _, id := range choices {
		if id == input {
			return id, true
		}
	}
	return "", false
}
