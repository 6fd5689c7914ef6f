package kubectl

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tool is a read-only inspection verb. The type is a closed enumeration:
// mutation verbs are unrepresentable, which is what makes the assistant safe
// to point at a live cluster.
type Tool string

const (
	ToolGet      Tool = "get"
	ToolDescribe Tool = "describe"
	ToolLogs     Tool = "logs"
)

// AllowedTools lists every runnable verb, in declaration order.
func AllowedTools() []Tool {
	return []Tool{ToolGet, ToolDescribe, ToolLogs}
}

var allowed = map[Tool]struct{}{
	ToolGet:      {},
	ToolDescribe: {},
	ToolLogs:     {},
}

// ParseTool validates a proposed tool name against the closed enumeration.
// Matching is exact: case variants, embedded flags, and anything else the
// model might smuggle into the name are rejected.
func ParseTool(name string) (Tool, error) {
	tool := Tool(name)
	if _, ok := allowed[tool]; !ok {
		return "", &UnauthorizedToolError{Tool: name}
	}
	return tool, nil
}

// Request is a validated-shape tool invocation produced by the reasoning
// step. Namespace defaults to "default" at execution time when empty.
type Request struct {
	Tool      Tool     `json:"tool"`
	Resource  string   `json:"resource,omitempty"`
	Name      string   `json:"name,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Args      []string `json:"args,omitempty"`
}

// Command renders the request as the kubectl invocation it maps to, for
// display and for the conversational trace.
func (r Request) Command() string {
	out := "kubectl " + string(r.Tool)
	if r.Resource != "" {
		out += " " + r.Resource
	}
	if r.Name != "" {
		out += " " + r.Name
	}
	for _, arg := range r.Args {
		out += " " + arg
	}
	if r.Namespace != "" {
		out += " -n " + r.Namespace
	}
	return out
}

// Result captures one command execution. Immutable once returned; owned by
// the turn that produced it.
type Result struct {
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	ExitCode int           `json:"exit_code"`
	Elapsed  time.Duration `json:"elapsed"`
	// Err holds a spawn-level failure (binary missing, timeout) that
	// produced no exit status of its own.
	Err string `json:"error,omitempty"`
}

// Failed reports whether the execution produced anything other than a clean
// exit.
func (r Result) Failed() bool {
	return r.ExitCode != 0 || r.Err != ""
}

// Observation renders the result the way the reasoning loop sees it.
func (r Result) Observation() string {
	if r.Err != "" {
		return "execution error: " + r.Err
	}
	if r.ExitCode != 0 {
		return fmt.Sprintf("command exited with status %d\n%s", r.ExitCode, r.Stderr)
	}
	if r.Stdout == "" {
		return "(no output)"
	}
	return r.Stdout
}

// UnauthorizedToolError reports a proposed action outside the read-only
// allow-list. The caller decides whether to loop it back as an observation
// or surface it; it is never executed.
type UnauthorizedToolError struct {
	Tool string
}

func (e *UnauthorizedToolError) Error() string {
	return fmt.Sprintf(
		"%s operations are not allowed: only read-only inspection verbs (get, describe, logs) may run",
		cases.Title(language.English).String(e.Tool),
	)
}

// ExecutionError reports a spawn-level failure of the command runner, as
// opposed to a command that ran and exited non-zero.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// argTokenPattern matches plain positional arguments: resource kinds,
// resource names, label selector values and the like.
var argTokenPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.,/=:-]*$`)

// allowedFlags are the extra kubectl flags a request may carry. Anything
// else starting with a dash is rejected so the model cannot inject flags
// that change command semantics (e.g. --kubeconfig or --as).
var allowedFlags = map[string]struct{}{
	"-o": {}, "--output": {},
	"-l": {}, "--selector": {},
	"-c": {}, "--container": {},
	"--tail": {}, "--previous": {}, "--timestamps": {},
	"--show-labels": {}, "--sort-by": {}, "--all-containers": {},
	"-A": {}, "--all-namespaces": {},
}

// validateRequest checks the argument shape of an already verb-validated
// request. Fails closed: an argument outside the declared schema means the
// whole request is rejected.
func validateRequest(req Request) error {
	for _, field := range []string{req.Resource, req.Name} {
		if field != "" && !argTokenPattern.MatchString(field) {
			return &UnauthorizedToolError{Tool: string(req.Tool) + " " + field}
		}
	}
	if req.Namespace != "" && !argTokenPattern.MatchString(req.Namespace) {
		return &UnauthorizedToolError{Tool: string(req.Tool) + " -n " + req.Namespace}
	}
	for _, arg := range req.Args {
		if arg == "" {
			return &UnauthorizedToolError{Tool: string(req.Tool)}
		}
		if arg[0] == '-' {
			flag, _, _ := cutFlag(arg)
			if _, ok := allowedFlags[flag]; !ok {
				return &UnauthorizedToolError{Tool: string(req.Tool) + " " + arg}
			}
			continue
		}
		if !argTokenPattern.MatchString(arg) {
			return &UnauthorizedToolError{Tool: string(req.Tool) + " " + arg}
		}
	}
	return nil
}

// cutFlag splits "--flag=value" into its flag and value parts.
func cutFlag(arg string) (flag, value string, hasValue bool) {
	for i := 0; i < len(arg); i++ {
		if arg[i] == '=' {
			return arg[:i], arg[i+1:], true
		}
	}
	return arg, "", false
}
