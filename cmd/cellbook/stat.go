package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/folding"
	"github.com/iw2rmb/cellbook/notebook"
	"github.com/iw2rmb/cellbook/viewstate"
)

type fileStat struct {
	Path    string
	Code    int
	Markup  int
	Regions []folding.Region
	// Hidden holds saved folded ranges; nil when no state was saved.
	Hidden []cellrange.Range
}

func newStatCmd(flags *globalFlags) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "stat FILE...",
		Short: "Summarize notebooks: cell counts, heading regions, folded ranges",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := stateStore(flags.stateDir)
			if err != nil {
				return err
			}
			stats, err := collectStats(cmd.Context(), store, args, jobs)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files loaded in parallel (default: GOMAXPROCS)")
	return cmd
}

// collectStats loads every file concurrently. Results keep argument order.
func collectStats(ctx context.Context, store viewstate.Store, paths []string, jobs int) ([]fileStat, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]fileStat, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := statFile(store, path)
			if err != nil {
				return err
			}
			results[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func statFile(store viewstate.Store, path string) (fileStat, error) {
	nb, err := notebook.Load(path)
	if err != nil {
		return fileStat{}, err
	}
	st := fileStat{Path: path}
	for _, c := range nb.Cells() {
		if c.Kind() == notebook.KindCode {
			st.Code++
		} else {
			st.Markup++
		}
	}

	fm := folding.New(nb, nil)
	defer fm.Close()
	st.Regions = fm.Regions()

	s, ok, err := store.Load(stateKey(path))
	if err != nil {
		return fileStat{}, fmt.Errorf("%s: %w", path, err)
	}
	if ok {
		fm.ApplyHidden(s.Hidden)
		st.Hidden = fm.HiddenRanges()
	}
	return st, nil
}

func printStats(w io.Writer, stats []fileStat) error {
	var sb strings.Builder
	for _, st := range stats {
		fmt.Fprintf(&sb, "%s: %d cells (%d code, %d markup), %d regions\n",
			st.Path, st.Code+st.Markup, st.Code, st.Markup, len(st.Regions))
		for _, r := range st.Regions {
			fmt.Fprintf(&sb, "  %s%s %s\n", strings.Repeat("  ", r.Level-1), strings.Repeat("#", r.Level), r.Range)
		}
		if st.Hidden != nil {
			fmt.Fprintf(&sb, "  folded: %v\n", st.Hidden)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
