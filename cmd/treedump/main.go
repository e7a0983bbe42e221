package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/delaneyj/recompose/cmd/treedump/templates"
	"github.com/delaneyj/recompose/compose"
	"github.com/delaneyj/recompose/compose/composetest"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	passesKey = "passes"
	rowsKey   = "rows"
	depthKey  = "depth"
	formatKey = "format"
	outKey    = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "treedump",
		Usage: "Compose a demo tree and dump its scopes",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  passesKey,
				Usage: "Number of passes to run before dumping",
				Value: 3,
			},
			&cli.UintFlag{
				Name:  rowsKey,
				Usage: "Number of memoized rows",
				Value: 3,
			},
			&cli.UintFlag{
				Name:  depthKey,
				Usage: "Plain nodes between each row and its label",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format: text or yaml",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Write the dump to this file instead of stdout",
			},
		},
		Action: dump,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type theme struct {
	name string
}

// app provides a theme, ticks once per pass and lays out rows. Row i is
// memoized on tick/(i+1), so higher rows recompose less often.
type app struct {
	rows, depth int
}

func (a app) Compose(cx compose.Scope) compose.Composable {
	compose.UseProvider(cx, func() theme { return theme{name: "plain"} })
	tick := compose.UseMut(cx, func() int { return 0 })
	tick.Update(func(n *int) { *n++ })

	rows := make([]compose.Composable, a.rows)
	for i := range rows {
		rows[i] = compose.Memo(tick.Value()/(i+1), composetest.Chain(a.depth, label{row: i}))
	}
	return compose.Group(rows...)
}

type label struct {
	row int
}

func (l label) Compose(cx compose.Scope) compose.Composable {
	th, err := compose.UseContext[theme](cx)
	if err != nil {
		panic(err)
	}
	text := compose.UseMemo(cx, th.name, func() string {
		return fmt.Sprintf("%s row %d", th.name, l.row)
	})
	compose.UseDrop(cx, func() { log.Printf("dropped %q", text.Value()) })
	return nil
}

func dump(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Tree dump started")
	defer func() {
		log.Printf("Tree dump finished in %v", time.Since(start))
	}()

	format := cmd.String(formatKey)
	if format != "text" && format != "yaml" {
		return fmt.Errorf("format must be text or yaml (got %q)", format)
	}

	passes := int(cmd.Uint(passesKey))
	c := compose.New(app{rows: int(cmd.Uint(rowsKey)), depth: int(cmd.Uint(depthKey))})
	defer c.Close()

	for i := 0; i < passes; i++ {
		if err := c.Compose(ctx); err != nil {
			return err
		}
	}
	log.Printf("Composer %s: %+v", c.ID(), c.Stats())

	var w io.Writer = os.Stdout
	if path := cmd.String(outKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	snap := c.Snapshot()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		templates.WriteTree(w, snap, passes)
		return nil
	}
}
