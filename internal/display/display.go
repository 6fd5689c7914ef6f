// Package display renders assistant output for the terminal: tool calls as
// they execute, the final answer, and failures. Rendering is a pure display
// concern; nothing here affects what the reasoning loop does.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
)

var (
	colorAccent  = lipgloss.Color("#36A3D9")
	colorSuccess = lipgloss.Color("#2CD7A7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")
)

// styles are pre-configured lipgloss styles.
var styles = struct {
	Command   lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	AnswerBox lipgloss.Style
	Banner    lipgloss.Style
	StatusOK  lipgloss.Style
	StatusErr lipgloss.Style
}{
	Command: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Warning: lipgloss.NewStyle().Foreground(colorWarning),
	AnswerBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1),
	Banner:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	StatusOK:  lipgloss.NewStyle().SetString("✓").Foreground(colorSuccess),
	StatusErr: lipgloss.NewStyle().SetString("✗").Foreground(colorError),
}

// Renderer writes assistant output. ShowTools toggles the per-call lines
// (the --no-tool-display flag); Verbose adds command output previews.
type Renderer struct {
	out       io.Writer
	showTools bool
	verbose   bool
}

// New builds a renderer over the writer.
func New(out io.Writer, showTools, verbose bool) *Renderer {
	return &Renderer{out: out, showTools: showTools, verbose: verbose}
}

// ToolCall renders one executed tool call. Used as the agent's tool call
// hook so commands appear as they run.
func (r *Renderer) ToolCall(req kubectl.Request, result kubectl.Result) {
	if !r.showTools {
		return
	}
	status := styles.StatusOK.String()
	if result.Failed() {
		status = styles.StatusErr.String()
	}
	fmt.Fprintf(r.out, "%s %s %s\n",
		status,
		styles.Command.Render(req.Command()),
		styles.Muted.Render(fmt.Sprintf("(%s)", result.Elapsed.Round(time.Millisecond))),
	)
	if r.verbose {
		preview := result.Observation()
		if len(preview) > 600 {
			preview = preview[:600] + "…"
		}
		fmt.Fprintln(r.out, styles.Muted.Render(indent(preview, "  ")))
	}
}

// Answer renders the final answer in a box.
func (r *Renderer) Answer(text string) {
	fmt.Fprintln(r.out, styles.AnswerBox.Render(strings.TrimSpace(text)))
}

// Failure renders a terminal failure with its reason.
func (r *Renderer) Failure(reason string) {
	fmt.Fprintln(r.out, styles.Error.Render("✗ "+reason))
}

// Notice renders a secondary informational line.
func (r *Renderer) Notice(text string) {
	fmt.Fprintln(r.out, styles.Muted.Render(text))
}

// Banner renders the interactive-mode header.
func (r *Renderer) Banner(contextName, namespace string) {
	fmt.Fprintln(r.out, styles.Banner.Render("kube-assistant interactive"))
	if contextName != "" {
		r.Notice("context: " + contextName)
	}
	r.Notice("namespace: " + namespace)
	r.Notice("type 'exit' or 'quit' to leave")
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
