package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
	"github.com/kube-assistant/kube-assistant/internal/llm"
	"github.com/kube-assistant/kube-assistant/internal/session"
)

const systemPromptTemplate = `You are kube-assistant, a Kubernetes cluster inspection assistant.

You answer questions about the cluster by calling the provided read-only
tools (get, describe, logs) and interpreting their output. You cannot
change the cluster: requests to create, modify, scale or delete anything
must be declined in your answer.

The namespace resolved for this query is %q. Use it unless the user named
a different one. Prefer few, targeted tool calls. When you have enough
information, reply with a concise plain-language answer instead of another
tool call.`

// buildMessages assembles the prompt context: system instructions, prior
// turns as plain query/answer pairs, then the current query.
func buildMessages(prior []session.Turn, query Query) []llm.Message {
	messages := []llm.Message{{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, query.Namespace),
	}}
	for _, turn := range prior {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Query},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: query.Text})
}

// degradedAnswer summarizes partial progress when the loop fails: the
// failure reason plus every command that did run, so nothing is lost.
func degradedAnswer(trace []session.ToolCall, cause error) string {
	var b strings.Builder
	b.WriteString("I could not finish answering: ")
	b.WriteString(cause.Error())
	if len(trace) == 0 {
		b.WriteString("\nNo inspection commands were executed.")
		return b.String()
	}
	b.WriteString("\nCommands executed before failing:")
	for _, call := range trace {
		fmt.Fprintf(&b, "\n  - %s (exit %d)", call.Request.Command(), call.Result.ExitCode)
	}
	return b.String()
}

// unmarshalArguments decodes the model's raw JSON argument payload into the
// request shape.
func unmarshalArguments(raw string, req *kubectl.Request) error {
	return json.Unmarshal([]byte(raw), req)
}
