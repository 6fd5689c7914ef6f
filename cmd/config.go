package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kube-assistant/kube-assistant/internal/config"
)

// newConfigCmd creates the command that views and edits the stored provider
// settings at ~/.kube-assistant/config.json.
func newConfigCmd() *cobra.Command {
	var (
		view          bool
		clear         bool
		setProvider   string
		setAPIKey     string
		setModel      string
		setEndpoint   string
		setDeployment string
		setAPIVersion string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or change the stored provider settings",
		Long: `View or change the settings stored at ~/.kube-assistant/config.json.

Without flags (or with --view) the current settings are printed with API
keys redacted. The --set-* flags store individual fields; --clear removes
the file entirely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewFileStore("")
			if err != nil {
				return err
			}

			if clear {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "configuration cleared")
				return nil
			}

			if setProvider != "" && !config.Provider(setProvider).Valid() {
				return fmt.Errorf("unknown provider %q (expected %q or %q)",
					setProvider, config.ProviderOpenAI, config.ProviderAzure)
			}

			over := config.Overrides{
				Provider:   setProvider,
				APIKey:     setAPIKey,
				Model:      setModel,
				Endpoint:   setEndpoint,
				Deployment: setDeployment,
				APIVersion: setAPIVersion,
			}
			if over != (config.Overrides{}) {
				cfg, err := store.Load()
				if err != nil {
					return err
				}
				over.ApplyTo(&cfg)
				if err := store.Save(cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "configuration saved")
				if !view {
					return nil
				}
			}

			cfg, err := store.Load()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg.WithDefaults().Redacted(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&view, "view", false, "Print the stored settings with keys redacted")
	f.BoolVar(&clear, "clear", false, "Remove the stored settings")
	f.StringVar(&setProvider, "set-provider", "", "Store the provider: openai or azure")
	f.StringVar(&setAPIKey, "set-api-key", "", "Store the API key for the current provider")
	f.StringVar(&setModel, "set-model", "", "Store the model name for the current provider")
	f.StringVar(&setEndpoint, "set-endpoint", "", "Store the Azure OpenAI endpoint URL")
	f.StringVar(&setDeployment, "set-deployment", "", "Store the Azure OpenAI deployment name")
	f.StringVar(&setAPIVersion, "set-api-version", "", "Store the Azure OpenAI API version")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-provider")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-api-key")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-model")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-endpoint")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-deployment")
	cmd.MarkFlagsMutuallyExclusive("clear", "set-api-version")
	return cmd
}
