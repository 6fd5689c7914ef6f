package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kube-assistant/kube-assistant/internal/agent"
	"github.com/kube-assistant/kube-assistant/internal/config"
	"github.com/kube-assistant/kube-assistant/internal/display"
	"github.com/kube-assistant/kube-assistant/internal/instrumentation"
	"github.com/kube-assistant/kube-assistant/internal/kubectl"
	"github.com/kube-assistant/kube-assistant/internal/llm"
	"github.com/kube-assistant/kube-assistant/internal/logging"
	"github.com/kube-assistant/kube-assistant/internal/namespace"
	"github.com/kube-assistant/kube-assistant/internal/session"
)

// runOptions holds the flags shared by the query and interactive commands.
type runOptions struct {
	namespace     string
	verbose       bool
	noToolDisplay bool
	provider      string
	model         string
	apiKey        string
	endpoint      string
	deployment    string
	kubeContext   string
	timeout       time.Duration
	maxSteps      int
}

func addRunFlags(cmd *cobra.Command, o *runOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.namespace, "namespace", "n", "", "Target namespace (skips inference from the query text)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output: debug logging and command output previews")
	f.BoolVar(&o.noToolDisplay, "no-tool-display", false, "Do not print the kubectl commands as they run")
	f.StringVar(&o.provider, "provider", "", "Model provider: openai or azure")
	f.StringVar(&o.model, "model", "", "Model name (openai) or deployment (azure)")
	f.StringVar(&o.apiKey, "api-key", "", "API key for the selected provider")
	f.StringVar(&o.endpoint, "endpoint", "", "Azure OpenAI endpoint URL")
	f.StringVar(&o.deployment, "deployment", "", "Azure OpenAI deployment name")
	f.StringVar(&o.kubeContext, "context", "", "Kubeconfig context to run commands against")
	f.DurationVar(&o.timeout, "timeout", kubectl.DefaultTimeout, "Per-command execution timeout")
	f.IntVar(&o.maxSteps, "max-steps", agent.DefaultMaxSteps, "Maximum reasoning steps per question")
}

// runtime bundles the per-invocation collaborators assembled from the
// resolved configuration.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	renderer *display.Renderer
	agent    *agent.Agent
	instr    *instrumentation.Provider
}

// newRuntime resolves configuration and wires the executor, model client,
// renderer and agent. The store may be nil for one-shot queries.
func newRuntime(cmd *cobra.Command, o *runOptions, store *session.Store) (*runtime, error) {
	logger := logging.NewLogger(o.verbose)

	cfgStore, err := config.NewFileStore("")
	if err != nil {
		return nil, err
	}
	fileCfg, err := cfgStore.Load()
	if err != nil {
		return nil, err
	}

	over := config.Overrides{
		Provider:   o.provider,
		APIKey:     o.apiKey,
		Model:      o.model,
		Endpoint:   o.endpoint,
		Deployment: o.deployment,
	}
	cfg, err := config.Resolve(over, fileCfg, config.CaptureEnv())
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration resolved",
		logging.Provider(string(cfg.Provider)),
		logging.Model(cfg.ModelID()))

	// Credentials given on the command line are kept for later runs, the
	// same way config --set-* would store them.
	if over != (config.Overrides{}) {
		over.ApplyTo(&fileCfg)
		if saveErr := cfgStore.Save(fileCfg); saveErr != nil {
			logger.Warn("failed to persist command-line settings", logging.Err(saveErr))
		}
	}

	instrCfg := instrumentation.DefaultConfig()
	instrCfg.ServiceVersion = rootCmd.Version
	instr, err := instrumentation.Setup(cmd.Context(), instrCfg)
	if err != nil {
		logger.Warn("instrumentation disabled", logging.Err(err))
		instr = &instrumentation.Provider{}
	}

	executorOpts := []kubectl.Option{
		kubectl.WithRunner(kubectl.NewKubectlRunner(o.kubeContext)),
		kubectl.WithTimeout(o.timeout),
		kubectl.WithLogger(logger),
	}
	if m := instr.Metrics(); m != nil {
		executorOpts = append(executorOpts, kubectl.WithRecorder(m))
	}
	executor, err := kubectl.NewExecutor(executorOpts...)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewOpenAIClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	renderer := display.New(cmd.OutOrStdout(), !o.noToolDisplay, o.verbose)

	agentOpts := []agent.Option{
		agent.WithClient(client),
		agent.WithExecutor(executor),
		agent.WithLogger(logger),
		agent.WithMaxSteps(o.maxSteps),
		agent.WithToolCallHook(renderer.ToolCall),
	}
	if store != nil {
		agentOpts = append(agentOpts, agent.WithStore(store))
	}
	if m := instr.Metrics(); m != nil {
		agentOpts = append(agentOpts, agent.WithRecorder(m))
	}
	a, err := agent.New(agentOpts...)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		renderer: renderer,
		agent:    a,
		instr:    instr,
	}, nil
}

func (rt *runtime) shutdown(ctx context.Context) {
	if err := rt.instr.Shutdown(ctx); err != nil {
		rt.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// runTurn resolves the namespace, runs one reasoning turn, and renders the
// result. The returned error is non-nil only for terminal failures.
func (rt *runtime) runTurn(ctx context.Context, text string, o *runOptions, sessionID string) (agent.Outcome, string, error) {
	ns := namespace.Infer(text, o.namespace)
	rt.logger.Debug("namespace resolved", logging.Namespace(ns))

	outcome, err := rt.agent.Run(ctx, agent.Query{
		Text:      text,
		Namespace: ns,
		SessionID: sessionID,
	})

	if outcome.Answer != "" {
		rt.renderer.Answer(outcome.Answer)
	}
	if outcome.Failed {
		rt.renderer.Failure(outcome.Reason)
	}
	return outcome, ns, err
}
