package kubectl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/kube-assistant/kube-assistant/internal/logging"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// ErrNilRunner is returned when an Executor is built without a runner.
var ErrNilRunner = errors.New("runner cannot be nil")

// Runner executes an already-validated kubectl argument vector. Implemented
// by the subprocess runner below and by test fakes.
type Runner interface {
	Run(ctx context.Context, args []string) Result
}

// Recorder receives execution metrics. Satisfied by the instrumentation
// package; nil-safe via the noop default.
type Recorder interface {
	RecordToolExecution(ctx context.Context, tool string, exitCode int, elapsed time.Duration)
}

// Executor validates tool invocation requests and dispatches them to the
// runner. It is the only path from the reasoning loop to the cluster.
type Executor struct {
	runner   Runner
	timeout  time.Duration
	logger   *slog.Logger
	recorder Recorder
}

// Option configures an Executor.
type Option func(*Executor) error

// WithRunner sets the command runner.
func WithRunner(r Runner) Option {
	return func(e *Executor) error {
		if r == nil {
			return ErrNilRunner
		}
		e.runner = r
		return nil
	}
}

// WithTimeout sets the per-execution timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) error {
		e.timeout = d
		return nil
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Executor) error {
		e.recorder = r
		return nil
	}
}

// NewExecutor builds an Executor. By default it shells out to kubectl with
// the default timeout and a discarding logger.
func NewExecutor(opts ...Option) (*Executor, error) {
	e := &Executor{
		runner:  NewKubectlRunner(""),
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Execute validates the request and runs it. Only authorization and shape
// violations return an error; execution failures of every other kind are
// captured into the Result so the caller can observe and react to them.
func (e *Executor) Execute(ctx context.Context, req Request) (Result, error) {
	if _, err := ParseTool(string(req.Tool)); err != nil {
		e.logger.Warn("rejected tool request",
			logging.Tool(string(req.Tool)),
			logging.Err(err))
		return Result{}, err
	}
	if err := validateRequest(req); err != nil {
		e.logger.Warn("rejected tool arguments",
			logging.Tool(string(req.Tool)),
			logging.Err(err))
		return Result{}, err
	}

	if req.Namespace == "" {
		req.Namespace = "default"
	}

	args := []string{string(req.Tool)}
	if req.Resource != "" {
		args = append(args, req.Resource)
	}
	if req.Name != "" {
		args = append(args, req.Name)
	}
	args = append(args, req.Args...)
	args = append(args, "-n", req.Namespace)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result := e.runner.Run(ctx, args)

	status := logging.StatusSuccess
	if result.Failed() {
		status = logging.StatusError
	}
	e.logger.Debug("executed tool",
		logging.Tool(string(req.Tool)),
		logging.Namespace(req.Namespace),
		logging.ExitCode(result.ExitCode),
		logging.Duration(result.Elapsed),
		logging.Status(status))
	if e.recorder != nil {
		e.recorder.RecordToolExecution(ctx, string(req.Tool), result.ExitCode, result.Elapsed)
	}

	return result, nil
}

// KubectlRunner runs commands through the kubectl binary.
type KubectlRunner struct {
	path        string
	kubeContext string
}

// NewKubectlRunner returns a runner over the kubectl binary. An empty
// kubeContext uses the kubeconfig's current context.
func NewKubectlRunner(kubeContext string) *KubectlRunner {
	return &KubectlRunner{path: "kubectl", kubeContext: kubeContext}
}

// Run executes kubectl with the given arguments, capturing output streams,
// the exit status and the elapsed time. A context deadline or a missing
// binary lands in Result.Err instead of an error return.
func (r *KubectlRunner) Run(ctx context.Context, args []string) Result {
	if r.kubeContext != "" {
		args = append([]string{"--context", r.kubeContext}, args...)
	}

	cmd := exec.CommandContext(ctx, r.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := Result{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: elapsed,
	}

	switch {
	case err == nil:
	case ctx.Err() != nil:
		result.ExitCode = -1
		result.Err = (&ExecutionError{Command: r.path, Err: ctx.Err()}).Error()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = (&ExecutionError{Command: r.path, Err: err}).Error()
		}
	}

	return result
}
