package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
	"github.com/kube-assistant/kube-assistant/internal/llm"
	"github.com/kube-assistant/kube-assistant/internal/logging"
	"github.com/kube-assistant/kube-assistant/internal/session"
)

// Loop bounds. The model is untrusted and could otherwise propose tool
// calls indefinitely.
const (
	DefaultMaxSteps      = 20
	DefaultMaxRetries    = 3
	DefaultMaxRejections = 3
	DefaultRetryDelay    = 500 * time.Millisecond

	// maxObservationBytes caps a single tool observation so prompts stay
	// bounded even for chatty commands.
	maxObservationBytes = 8192
)

// Construction errors.
var (
	ErrMissingClient   = errors.New("model client cannot be nil")
	ErrMissingExecutor = errors.New("tool executor cannot be nil")
)

// Executor runs validated tool requests. Satisfied by *kubectl.Executor.
type Executor interface {
	Execute(ctx context.Context, req kubectl.Request) (kubectl.Result, error)
}

// Recorder receives loop metrics. Satisfied by the instrumentation package.
type Recorder interface {
	RecordModelRequest(ctx context.Context, success bool)
	RecordReasoningRun(ctx context.Context, steps int, outcome string)
}

// Query is one invocation's input, built once and never mutated.
type Query struct {
	Text      string
	Namespace string
	SessionID string
}

// Outcome is the result of a reasoning run: the answer, the ordered tool
// trace, and the failure reason when the run failed. The trace is always
// present; nothing is silently dropped.
type Outcome struct {
	Answer string
	Trace  []session.ToolCall
	Failed bool
	Reason string
}

// RunawayLoopError reports that the loop hit its step bound without the
// model producing a final answer.
type RunawayLoopError struct {
	Steps int
}

func (e *RunawayLoopError) Error() string {
	return fmt.Sprintf("reasoning loop exceeded %d steps without reaching a final answer", e.Steps)
}

// Agent orchestrates the reasoning loop.
type Agent struct {
	client        llm.Client
	executor      Executor
	store         *session.Store
	logger        *slog.Logger
	recorder      Recorder
	maxSteps      int
	maxRetries    int
	maxRejections int
	retryDelay    time.Duration
	onToolCall    func(kubectl.Request, kubectl.Result)
}

// Option configures an Agent.
type Option func(*Agent) error

// WithClient sets the model client. Required.
func WithClient(c llm.Client) Option {
	return func(a *Agent) error {
		a.client = c
		return nil
	}
}

// WithExecutor sets the tool executor. Required.
func WithExecutor(e Executor) Option {
	return func(a *Agent) error {
		a.executor = e
		return nil
	}
}

// WithStore sets the conversation store consulted for prior turns. Optional;
// without it every query starts a fresh context.
func WithStore(s *session.Store) Option {
	return func(a *Agent) error {
		a.store = s
		return nil
	}
}

// WithLogger sets the agent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		a.logger = logger
		return nil
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Agent) error {
		a.recorder = r
		return nil
	}
}

// WithMaxSteps sets the step bound.
func WithMaxSteps(n int) Option {
	return func(a *Agent) error {
		if n < 1 {
			return fmt.Errorf("max steps must be positive, got %d", n)
		}
		a.maxSteps = n
		return nil
	}
}

// WithMaxRetries sets how many attempts a single Propose makes against a
// failing model backend.
func WithMaxRetries(n int) Option {
	return func(a *Agent) error {
		if n < 1 {
			return fmt.Errorf("max retries must be positive, got %d", n)
		}
		a.maxRetries = n
		return nil
	}
}

// WithRetryDelay sets the pause between model retry attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(a *Agent) error {
		a.retryDelay = d
		return nil
	}
}

// WithToolCallHook registers a callback invoked after each executed tool
// call, used by the CLI to render the call as it happens.
func WithToolCallHook(fn func(kubectl.Request, kubectl.Result)) Option {
	return func(a *Agent) error {
		a.onToolCall = fn
		return nil
	}
}

// New builds an Agent and validates its dependencies.
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		logger:        slog.New(slog.DiscardHandler),
		maxSteps:      DefaultMaxSteps,
		maxRetries:    DefaultMaxRetries,
		maxRejections: DefaultMaxRejections,
		retryDelay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.client == nil {
		return nil, ErrMissingClient
	}
	if a.executor == nil {
		return nil, ErrMissingExecutor
	}
	return a, nil
}

// Run executes the reasoning loop for one query. A nil error means the loop
// reached Done; a non-nil error accompanies a Failed outcome that still
// carries the trace and a degraded answer.
func (a *Agent) Run(ctx context.Context, query Query) (Outcome, error) {
	logger := logging.WithOperation(a.logger, "agent.run")
	if query.SessionID != "" {
		logger = logging.WithSession(logger, query.SessionID)
	}

	var prior []session.Turn
	if a.store != nil {
		prior = a.store.History()
	}
	messages := buildMessages(prior, query)

	var trace []session.ToolCall
	rejections := 0
	emptyResponses := 0

	for step := 1; step <= a.maxSteps; step++ {
		// Cancellation is honored at state boundaries only; an in-flight
		// tool call runs to completion before the loop notices.
		if err := ctx.Err(); err != nil {
			return a.failed(ctx, step, trace, err), err
		}

		completion, err := a.propose(ctx, messages)
		if err != nil {
			logger.Error("model capability exhausted retries", logging.Step(step), logging.Err(err))
			return a.failed(ctx, step, trace, err), err
		}

		if !completion.IsToolRequest() {
			if strings.TrimSpace(completion.Content) == "" {
				// Neither a tool request nor an answer. Nudge once per
				// occurrence, bounded like capability failures.
				emptyResponses++
				if emptyResponses >= a.maxRetries {
					err := &llm.CapabilityError{
						Provider: "model",
						Err:      errors.New("model returned neither a tool request nor an answer"),
					}
					return a.failed(ctx, step, trace, err), err
				}
				messages = append(messages, llm.Message{
					Role:    llm.RoleUser,
					Content: "Respond with either a tool call or a final answer.",
				})
				continue
			}
			logger.Debug("reached final answer", logging.Step(step))
			a.record(ctx, step, "done")
			return Outcome{Answer: completion.Content, Trace: trace}, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})

		for _, call := range completion.ToolCalls {
			observation, toolCall, rejErr := a.act(ctx, query, call, logger.With(logging.Step(step)))
			if rejErr != nil {
				rejections++
				if rejections > a.maxRejections {
					logger.Error("disallowed tool requests exceeded bound", logging.Err(rejErr))
					return a.failed(ctx, step, trace, rejErr), rejErr
				}
			}
			if toolCall != nil {
				trace = append(trace, *toolCall)
				if a.onToolCall != nil {
					a.onToolCall(toolCall.Request, toolCall.Result)
				}
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    observation,
			})
		}
	}

	err := &RunawayLoopError{Steps: a.maxSteps}
	logger.Error("runaway loop", logging.Err(err))
	return a.failed(ctx, a.maxSteps, trace, err), err
}

// act validates and executes one tool call. It returns the observation for
// the model, the trace entry when the call actually ran, and a non-nil
// error only for rejected (never executed) calls.
func (a *Agent) act(ctx context.Context, query Query, call llm.ToolCall, logger *slog.Logger) (string, *session.ToolCall, error) {
	req, err := decodeRequest(query, call)
	if err != nil {
		var unauthorized *kubectl.UnauthorizedToolError
		if errors.As(err, &unauthorized) {
			logger.Warn("model proposed disallowed tool",
				logging.Tool(call.Name),
				logging.Err(err))
			return "rejected: " + err.Error(), nil, err
		}
		// Malformed arguments for an allowed verb: observable, not counted
		// against the rejection bound.
		logger.Warn("malformed tool arguments", logging.Tool(call.Name), logging.Err(err))
		return "rejected: " + err.Error(), nil, nil
	}

	result, err := a.executor.Execute(ctx, req)
	if err != nil {
		logger.Warn("executor rejected request", logging.Tool(call.Name), logging.Err(err))
		return "rejected: " + err.Error(), nil, err
	}

	return truncate(result.Observation(), maxObservationBytes), &session.ToolCall{Request: req, Result: result}, nil
}

// propose invokes the model, retrying capability failures a bounded number
// of times.
func (a *Agent) propose(ctx context.Context, messages []llm.Message) (llm.Completion, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return llm.Completion{}, ctx.Err()
			case <-time.After(a.retryDelay):
			}
		}

		completion, err := a.client.Complete(ctx, messages)
		if a.recorder != nil {
			a.recorder.RecordModelRequest(ctx, err == nil)
		}
		if err == nil {
			return completion, nil
		}

		var capability *llm.CapabilityError
		if !errors.As(err, &capability) {
			return llm.Completion{}, err
		}
		lastErr = err
	}
	return llm.Completion{}, lastErr
}

// decodeRequest turns a structured model tool call into a validated request,
// defaulting the namespace resolved for the query.
func decodeRequest(query Query, call llm.ToolCall) (kubectl.Request, error) {
	tool, err := kubectl.ParseTool(call.Name)
	if err != nil {
		return kubectl.Request{}, err
	}

	var req kubectl.Request
	if call.Arguments != "" {
		if err := unmarshalArguments(call.Arguments, &req); err != nil {
			return kubectl.Request{}, fmt.Errorf("invalid arguments for tool %s: %w", tool, err)
		}
	}
	req.Tool = tool
	if req.Namespace == "" {
		req.Namespace = query.Namespace
	}

	// logs addresses a pod directly; fold a resource-shaped argument into
	// the name so the rendered command stays valid.
	if tool == kubectl.ToolLogs {
		if req.Name == "" {
			req.Name = req.Resource
		}
		req.Resource = ""
	}
	return req, nil
}

func (a *Agent) failed(ctx context.Context, steps int, trace []session.ToolCall, cause error) Outcome {
	a.record(ctx, steps, "failed")
	return Outcome{
		Answer: degradedAnswer(trace, cause),
		Trace:  trace,
		Failed: true,
		Reason: cause.Error(),
	}
}

func (a *Agent) record(ctx context.Context, steps int, outcome string) {
	if a.recorder != nil {
		a.recorder.RecordReasoningRun(ctx, steps, outcome)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (output truncated)"
}
