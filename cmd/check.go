package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate every configured question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		cats := d.cfg.BankCategories()
		counts := make([]int, len(cats))
		errs := make([]error, len(cats))

		// Each bank is checked independently; one failure does not stop
		// the others.
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)
		for i, c := range cats {
			g.Go(func() error {
				qs, err := d.loader.Load(ctx, c)
				counts[i], errs[i] = len(qs), err
				return nil
			})
		}
		_ = g.Wait()

		out := cmd.OutOrStdout()
		failed := 0
		for i, c := range cats {
			switch {
			case errs[i] != nil:
				failed++
				fmt.Fprintf(out, "FAIL  %-6s %s: %v\n", c.ID, c.Name, errs[i])
			case counts[i] == 0:
				failed++
				fmt.Fprintf(out, "FAIL  %-6s %s: no questions\n", c.ID, c.Name)
			case counts[i] < c.Count:
				fmt.Fprintf(out, "WARN  %-6s %s: %d questions, fewer than the %d drawn per quiz\n", c.ID, c.Name, counts[i], c.Count)
			default:
				fmt.Fprintf(out, "OK    %-6s %s: %d questions\n", c.ID, c.Name, counts[i])
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d banks failed", failed, len(cats))
		}
		return nil
	},
}
