package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mithrel/thingstocheck/internal/config"
	"github.com/mithrel/thingstocheck/internal/editor"
	"github.com/mithrel/thingstocheck/internal/keys"
	"github.com/mithrel/thingstocheck/internal/wire"
)

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "edit",
		Short:       "Open the config file in $EDITOR and validate the result",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := getConfig(cmd).ConfigFileUsed()
			if path == "" {
				path = config.DefaultConfigPath()
			}
			original, err := os.ReadFile(path)
			existed := err == nil
			if errors.Is(err, fs.ErrNotExist) {
				original = []byte(config.RenderDefaultTOML())
			} else if err != nil {
				return err
			}

			streams := editor.Streams{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
			_, changed, err := editor.OpenAt(path, original, streams)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !changed && existed {
				_, _ = fmt.Fprintf(w, "No changes: %s\n", path)
				return nil
			}
			if existed {
				backup, err := backupBytes(path, original)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "Backup: %s\n", backup)
			}

			v := viper.New()
			v.SetConfigFile(path)
			if err := config.Load(cmd.Context(), v); err != nil {
				return fmt.Errorf("%s was saved but does not parse: %w", path, err)
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("%s was saved but is invalid: %w", path, err)
			}
			_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the Slack signing secret in the system keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "set",
		Short:       "Store the signing secret (read from stdin)",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if secret == "" {
				return errors.New("empty secret")
			}
			if _, ok := wire.Secrets.(*keys.KeyringStore); ok && !keys.KeyringAvailable() {
				return errors.New("no system keyring is available; set slack.signing_secret instead")
			}
			if err := wire.Secrets.Put(keys.SigningSecretID, secret); err != nil {
				return fmt.Errorf("store secret: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Stored signing secret; set slack.keyring = true to use it")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:         "delete",
		Short:       "Remove the stored signing secret",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Secrets.Delete(keys.SigningSecretID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Deleted signing secret")
			return nil
		},
	})
	return cmd
}

// readSecret reads one line, without echo when in is a terminal.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "Signing secret: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
