package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/recompose/compose"
	"github.com/delaneyj/recompose/compose/composetest"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	configKey     = "config"
	iterationsKey = "iterations"
	updaterKey    = "updater"
	profileKey    = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure pass latency over width x height composable trees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "Optional YAML file with widths, heights, iterations and updater",
				Value: "bench.yaml",
			},
			&cli.UintFlag{
				Name:  iterationsKey,
				Usage: "Passes measured per tree, overrides the config file",
			},
			&cli.StringFlag{
				Name:  updaterKey,
				Usage: "Update policy: queue or immediate, overrides the config file",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := LoadOptional(cmd.String(configKey))
	if err != nil {
		return err
	}
	if cmd.IsSet(iterationsKey) {
		cfg.Iterations = int(cmd.Uint(iterationsKey))
	}
	if cmd.IsSet(updaterKey) {
		cfg.Updater = cmd.String(updaterKey)
		if err := cfg.validate(); err != nil {
			return err
		}
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	if err := benchmarkTrees(ctx, cfg, "Every leaf ticks", tickingGrid, false); err != nil {
		return err
	}

	if err := benchmarkTrees(ctx, cfg, "Every leaf ticks", tickingGrid, true); err != nil {
		return err
	}
	return benchmarkTrees(ctx, cfg, "One memoized column ticks", memoGrid, true)
}

type treeBuilder func(w, h int, seen []int) compose.Composable

func tickingGrid(w, h int, seen []int) compose.Composable {
	return composetest.Grid(w, h, func(i int) compose.Composable {
		return composetest.Ticker{Seen: &seen[i]}
	})
}

// memoGrid puts every column behind a constant Memo. Only column 0 has a
// ticking leaf, so the other columns are skipped after the first pass.
func memoGrid(w, h int, seen []int) compose.Composable {
	counts := make([]int, w)
	columns := make([]compose.Composable, w)
	for i := range columns {
		var leaf compose.Composable = composetest.Counter{Count: &counts[i]}
		if i == 0 {
			leaf = composetest.Ticker{Seen: &seen[i]}
		}
		columns[i] = compose.Memo(i, composetest.Chain(h, leaf))
	}
	return compose.Group(columns...)
}

func newUpdater(name string) compose.Updater {
	if name == "immediate" {
		return compose.NewImmediateUpdater()
	}
	return compose.NewQueueUpdater()
}

func benchmarkTrees(ctx context.Context, cfg *Config, title string, build treeBuilder, shouldRender bool) error {
	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("%s (%s updater)", title, cfg.Updater))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "scopes", "avg", "min", "p75", "p99", "max"})

	for _, w := range cfg.Widths {
		for _, h := range cfg.Heights {
			tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})

			seen := make([]int, w)
			c := compose.New(build(w, h, seen), compose.WithUpdater(newUpdater(cfg.Updater)))
			if err := c.Compose(ctx); err != nil {
				return err
			}

			for i := 0; i < cfg.Iterations; i++ {
				start := time.Now()
				if err := c.Compose(ctx); err != nil {
					return err
				}
				tach.AddTime(time.Since(start))
			}

			if want := cfg.Iterations; cfg.Updater == "queue" && seen[0] != want {
				return fmt.Errorf("%dx%d: leaf saw %d, want %d", w, h, seen[0], want)
			}

			stats := c.Stats()
			if err := c.Close(); err != nil {
				return err
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("pass: %d * %d", w, h),
					stats.LiveScopes,
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
	return nil
}
