package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write the loaded catalog to a new .yml, .toml or .db file",
		Long: "Write the loaded catalog to a new file. The format follows the extension.\n" +
			"Entry order is preserved, so share links keep pointing at the same items.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			entries := app.Catalog.Entries()
			things := make([]string, len(entries))
			for i, e := range entries {
				things[i] = e.Markdown
			}
			if err := catalog.WriteFile(cmd.Context(), args[0], things); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(things), args[0])
			return nil
		},
	}
}
