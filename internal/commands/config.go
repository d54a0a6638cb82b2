package commands

import (
	"fmt"
	"strings"

	"github.com/sdpower/mite-go/internal/config"
	"github.com/sdpower/mite-go/internal/prompt"
	"github.com/sdpower/mite-go/internal/types"
	"github.com/spf13/cobra"
)

func NewConfigCommand(env *Env) *cobra.Command {
	var (
		account string
		apiKey  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Save Mite credentials",
		Long: `Save the Mite account name and API key to ~/.mite_config.json (mode 0600).
Missing values are asked for interactively when running in a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := config.Credentials{
				Account: strings.TrimSpace(account),
				APIKey:  strings.TrimSpace(apiKey),
			}

			if creds.Account == "" || creds.APIKey == "" {
				if env.Prompt == nil || env.Interactive == nil || !env.Interactive() {
					return types.ValidationError{Field: "credentials", Message: "--account and --api-key are required when not running in a terminal"}
				}
				var err error
				creds, err = env.Prompt(cmd.Context(), prompt.Options{
					Initial: creds,
					NoColor: noColor,
					Input:   cmd.InOrStdin(),
					Output:  cmd.OutOrStdout(),
				})
				if err != nil {
					return err
				}
			}

			path, err := env.ConfigPath()
			if err != nil {
				return err
			}
			if err := config.Save(path, creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Mite account name (the subdomain of your Mite URL)")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "Mite API key")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
