// Command weft-demo mounts a small interactive counter app on a
// terminal surface. It exists to exercise the full pipeline end to end:
// components, keyed arrays, key dispatch, and minimal text patching.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weft-ui/weft"
	"github.com/weft-ui/weft/pkg/surface"
	"github.com/weft-ui/weft/pkg/term"
	"github.com/weft-ui/weft/pkg/tree"
)

type config struct {
	Theme term.Theme `yaml:"theme"`
	Keys  struct {
		Quit string `yaml:"quit"`
	} `yaml:"keys"`
}

func loadConfig(path string) (config, error) {
	cfg := config{Theme: term.DefaultTheme()}
	cfg.Keys.Quit = "q"
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "weft-demo",
		Short: "Interactive demo of the weft reconciliation engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to yaml config")

	if err := root.Execute(); err != nil {
		slog.Error("weft-demo failed", "error", err)
		os.Exit(1)
	}
}

// counter renders one adjustable value. "+" and "-" in normal mode
// update only this instance's state.
func counter(ctx weft.Context) *weft.Node {
	n, _ := ctx.State().(int)
	label, _ := ctx.Props()["label"].(string)
	bump := func(delta int) weft.KeyHandler {
		return func(weft.Event) weft.Outcome {
			ctx.Update(n + delta)
			return weft.Outcome{Result: weft.Consume}
		}
	}
	return weft.Tag(weft.Attrs{
		"hl": "accent",
		tree.AttrKeymapPrefix + "n": map[string]any{
			"+": weft.KeyHandler(bump(1)),
			"-": weft.KeyHandler(bump(-1)),
		},
	},
		weft.Text("  "+label+": "),
		weft.TextAny(n),
		weft.Text("\n"),
	)
}

// app is the root component: a title, a keyed list of counters, and a
// help line.
func app(ctx weft.Context) *weft.Node {
	return weft.Group(
		weft.Tag(weft.Attrs{"hl": "title"}, weft.Text("weft demo\n\n")),
		weft.C(counter, weft.Attrs{"key": "apples", "label": "apples"}),
		weft.C(counter, weft.Attrs{"key": "pears", "label": "pears"}),
		weft.Tag(weft.Attrs{"hl": "muted"}, weft.Text("\nmove the cursor onto a counter, then +/- to adjust, q to quit\n")),
	)
}

func run(cfg config) error {
	screen, err := term.NewScreen(cfg.Theme)
	if err != nil {
		return err
	}

	rec := weft.New(screen)
	defer rec.Close()
	if err := rec.Mount(weft.C(app, nil)); err != nil {
		return err
	}

	screen.Highlights = func() []term.Highlight {
		var out []term.Highlight
		for _, tr := range rec.Tracker().All() {
			style, ok := tr.Tag.Attrs["hl"].(string)
			if !ok {
				continue
			}
			span, ok := rec.Tracker().Span(tr)
			if !ok {
				continue
			}
			out = append(out, term.Highlight{Span: span, Style: style})
		}
		return out
	}

	move := func(dl, dc int) surface.KeyFunc {
		return func() surface.KeyResult {
			cur := screen.Cursor()
			screen.SetCursor(surface.Point{Line: cur.Line + dl, Col: cur.Col + dc})
			return surface.KeyResult{Suppress: true}
		}
	}
	screen.Bind("n", "<Up>", move(-1, 0))
	screen.Bind("n", "<Down>", move(1, 0))
	screen.Bind("n", "<Left>", move(0, -1))
	screen.Bind("n", "<Right>", move(0, 1))

	quitKey := cfg.Keys.Quit
	screen.Run(func(ev *tcell.EventKey) bool {
		if ev.Key() == tcell.KeyCtrlC {
			return true
		}
		return ev.Key() == tcell.KeyRune && string(ev.Rune()) == quitKey
	})
	return nil
}
