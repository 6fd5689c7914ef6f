package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// newQueryCmd creates the command that answers a single question. It is
// also what bare arguments are rewritten onto, so most invocations land
// here.
func newQueryCmd() *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Answer a natural-language question about the cluster",
		Long: `Answer a single natural-language question about the cluster.

The question is translated into read-only kubectl commands (get, describe,
logs) whose output is summarized into a plain-language answer. The target
namespace is taken from the -n flag when given, otherwise inferred
conservatively from the question itself, otherwise "default".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(cmd, o, nil)
			if err != nil {
				return err
			}
			defer rt.shutdown(cmd.Context())

			_, _, err = rt.runTurn(ctx, strings.Join(args, " "), o, "")
			return err
		},
	}

	addRunFlags(cmd, o)
	return cmd
}
