package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/thingstocheck/internal/present"
	"github.com/mithrel/thingstocheck/internal/util"
)

func newListCmd() *cobra.Command {
	var search string
	var limit int
	var noHeaders bool
	var outputFlag string
	var width int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every thing to check with its index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			out := cmd.OutOrStdout()
			mode, err := outputMode(outputFlag, out)
			if err != nil {
				return err
			}
			entries := util.ScoreEntries(search, app.Catalog.Entries(), limit)
			opts := present.Options{
				Mode:    mode,
				Headers: !noHeaders,
				Width:   width,
				Digest:  app.Catalog.Digest(),
			}
			return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderEntries(w, entries, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy filter, best matches first")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 means all)")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	cmd.Flags().IntVar(&width, "width", 80, "truncate pretty lines to this width")
	addOutputFlag(cmd, &outputFlag)
	return cmd
}
