package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/recompose/compose"
	"github.com/delaneyj/recompose/compose/composetest"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const repeatsKey = "repeats"

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_memo",
		Usage: "Measure how often memoized subtrees are skipped",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Runs per scenario, the fastest is reported",
				Value: 5,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type scenario struct {
	name        string
	width       int // memoized columns
	height      int // plain nodes beneath each memo
	passes      int // passes after the first
	changeEvery int // one column's dependency changes every changeEvery passes
}

// expectedComposes is the number of times a leaf composes: every column on
// the first pass, then one column per dependency change.
func (s scenario) expectedComposes() int64 {
	return int64(s.width + s.passes/s.changeEvery)
}

var scenarios = []scenario{
	{name: "static", width: 10, height: 5, passes: 10_000, changeEvery: 1_000_000},
	{name: "rare change", width: 100, height: 5, passes: 5_000, changeEvery: 100},
	{name: "frequent change", width: 100, height: 5, passes: 5_000, changeEvery: 2},
	{name: "every pass", width: 10, height: 10, passes: 5_000, changeEvery: 1},
	{name: "wide", width: 1_000, height: 2, passes: 500, changeEvery: 10},
	{name: "deep", width: 5, height: 200, passes: 2_000, changeEvery: 20},
}

// board composes one Memo per column, keyed on that column's dependency.
type board struct {
	deps   []int
	height int
	leaves *int64
}

func (b *board) Compose(cx compose.Scope) compose.Composable {
	columns := make([]compose.Composable, len(b.deps))
	for i, dep := range b.deps {
		columns[i] = compose.Memo(dep, composetest.Chain(b.height, leaf{count: b.leaves}))
	}
	return compose.Group(columns...)
}

type leaf struct {
	count *int64
}

func (l leaf) Compose(cx compose.Scope) compose.Composable {
	*l.count++
	return nil
}

type result struct {
	leaves   int64
	duration time.Duration
	scopes   int
}

func runScenario(ctx context.Context, s scenario) (result, error) {
	b := &board{deps: make([]int, s.width), height: s.height, leaves: new(int64)}
	c := compose.New(b)
	defer c.Close()

	start := time.Now()
	if err := c.Compose(ctx); err != nil {
		return result{}, err
	}
	for p := 1; p <= s.passes; p++ {
		if p%s.changeEvery == 0 {
			b.deps[(p/s.changeEvery)%s.width]++
		}
		if err := c.Compose(ctx); err != nil {
			return result{}, err
		}
	}

	return result{
		leaves:   *b.leaves,
		duration: time.Since(start),
		scopes:   c.Stats().LiveScopes,
	}, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting memo benchmark, please wait...")
	defer log.Print("Finished memo benchmark")

	repeats := int(cmd.Uint(repeatsKey))
	if repeats < 1 {
		repeats = 1
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"test", "size", "scopes", "passes", "changeEvery",
		"leafComposes", "skipped%", "time", "passRate",
	})

	for _, s := range scenarios {
		log.Printf("Running '%s' scenario", s.name)

		best := result{duration: time.Hour}
		for i := 0; i < repeats; i++ {
			log.Printf("Running '%s' scenario, iteration %d/%d %d%%", s.name, i+1, repeats, (i+1)*100/repeats)
			r, err := runScenario(ctx, s)
			if err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			if r.leaves != s.expectedComposes() {
				return fmt.Errorf("%s: leaves composed %d times, want %d", s.name, r.leaves, s.expectedComposes())
			}
			if r.duration < best.duration {
				best = r
			}
		}

		possible := float64(s.width) * float64(s.passes)
		skipped := 100 * (1 - float64(best.leaves-int64(s.width))/possible)
		passRate := float64(s.passes+1) / best.duration.Seconds()

		table.Append([]string{
			s.name,
			fmt.Sprintf("%dx%d", s.width, s.height),
			fmt.Sprint(best.scopes),
			humanize.Comma(int64(s.passes)),
			humanize.Comma(int64(s.changeEvery)),
			humanize.Comma(best.leaves),
			fmt.Sprintf("%0.2f", skipped),
			fmt.Sprint(best.duration),
			humanize.Comma(int64(passRate)),
		})
	}
	table.Render()
	return nil
}
