package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/thingstocheck/internal/config"
	"github.com/mithrel/thingstocheck/internal/present"
	"github.com/mithrel/thingstocheck/internal/server"
	"github.com/mithrel/thingstocheck/internal/share"
	"github.com/mithrel/thingstocheck/internal/suggest"
)

func newShowCmd() *cobra.Command {
	var link bool
	var width int
	var outputFlag string
	cmd := &cobra.Command{
		Use:   "show [index]",
		Short: "Print one thing to check (random unless an index is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			req := suggest.Any()
			if len(args) == 1 {
				idx, _, err := share.ParseIndex(url.Values{share.Param: {args[0]}})
				if err != nil {
					return err
				}
				req = suggest.At(idx)
			}
			thing, err := app.Selector.Select(app.Catalog, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			mode, err := outputMode(outputFlag, out)
			if err != nil {
				return err
			}
			// Build the link first so a bad public_url prints nothing.
			var shareLink *url.URL
			if link {
				base, err := linkBase(app.Cfg)
				if err != nil {
					return err
				}
				if shareLink, err = share.New(server.Routes).Link(base, thing.Index); err != nil {
					return err
				}
			}

			opts := present.Options{Mode: mode, Width: width}
			if err := present.RenderEntry(out, thing, opts); err != nil {
				return err
			}
			if shareLink != nil {
				_, _ = fmt.Fprintln(out, shareLink.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&link, "link", false, "also print a share link for the suggestion")
	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for terminal output")
	addOutputFlag(cmd, &outputFlag)
	return cmd
}

// linkBase is public_url when configured, otherwise the local listen address.
func linkBase(v *viper.Viper) (*url.URL, error) {
	if u, err := config.PublicURL(v); err != nil || u != nil {
		return u, err
	}
	addr, err := config.ListenAddr(v)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return &url.URL{Scheme: "http", Host: addr}, nil
}

// outputMode resolves --output. An empty flag picks pretty on a terminal and
// plain otherwise.
func outputMode(flag string, out io.Writer) (present.Mode, error) {
	if flag == "" {
		if isTerminal(out) {
			return present.ModePretty, nil
		}
		return present.ModePlain, nil
	}
	mode, ok := present.ParseMode(strings.ToLower(flag))
	if !ok {
		return 0, fmt.Errorf("invalid --output: %s", flag)
	}
	return mode, nil
}

func addOutputFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "output", "o", "", "output mode: plain|pretty|json|ndjson (default pretty on a terminal)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
}
