package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
	"github.com/kube-assistant/kube-assistant/internal/logging"
	"github.com/kube-assistant/kube-assistant/internal/session"
)

// newInteractiveCmd creates the multi-turn conversation command. Turns are
// processed strictly sequentially and the session is persisted after each
// one, so an interrupt loses at most the turn in flight.
func newInteractiveCmd() *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start a multi-turn conversation about the cluster",
		Long: `Start a conversation about the cluster. Each question may build on
earlier turns; the conversation is persisted and picked up again by the
next interactive run. Type 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			historyPath, err := session.DefaultPath()
			if err != nil {
				return err
			}
			store, err := session.NewStore(session.WithPath(historyPath))
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd, o, store)
			if err != nil {
				return err
			}
			defer rt.shutdown(cmd.Context())

			contextName := ""
			if info, err := kubectl.CurrentContext(o.kubeContext); err == nil {
				contextName = info.Name
			}
			rt.renderer.Banner(contextName, displayNamespace(o.namespace))

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if ctx.Err() != nil {
					break
				}
				fmt.Fprint(cmd.OutOrStdout(), "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				outcome, ns, runErr := rt.runTurn(ctx, line, o, store.SessionID())
				if runErr != nil && ctx.Err() != nil {
					break
				}

				store.Append(session.Turn{
					Query:     line,
					Namespace: ns,
					ToolCalls: outcome.Trace,
					Answer:    outcome.Answer,
					Timestamp: time.Now().UTC(),
				})
				if saveErr := store.Save(); saveErr != nil {
					rt.logger.Warn("failed to persist session", logging.Err(saveErr))
				}
			}
			return scanner.Err()
		},
	}

	addRunFlags(cmd, o)
	return cmd
}

func displayNamespace(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return "inferred per question"
}
