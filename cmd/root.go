package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the kube-assistant application.
var rootCmd = &cobra.Command{
	Use:   "kube-assistant",
	Short: "Natural-language Kubernetes cluster inspection",
	Long: `kube-assistant answers plain-language questions about a Kubernetes
cluster. It translates a question into a sequence of read-only kubectl
commands (get, describe, logs), runs them, and synthesizes an answer.
Mutating operations are structurally impossible: only the three inspection
verbs can ever reach the cluster.

Arguments that do not name a subcommand are treated as the question itself,
so 'kube-assistant "why is my pod crashing"' just works.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kube-assistant version %s\n" .Version}}`)

	// Bare arguments are the question itself: rewrite them onto the query
	// subcommand unless the first argument is a known subcommand or a flag.
	if len(os.Args) > 1 && !isKnownSubcommand(os.Args[1]) && !strings.HasPrefix(os.Args[1], "-") {
		os.Args = append([]string{os.Args[0], "query"}, os.Args[1:]...)
	}

	err := rootCmd.Execute()
	if err != nil {
		// Cobra itself usually prints the error. Exiting with a non-zero
		// status code indicates that an error occurred during execution.
		os.Exit(1)
	}
}

// isKnownSubcommand reports whether the argument names a registered
// subcommand or one of Cobra's built-ins.
func isKnownSubcommand(arg string) bool {
	if arg == "help" || arg == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == arg || c.HasAlias(arg) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newInteractiveCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
