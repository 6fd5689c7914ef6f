package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
)

func testRequest() kubectl.Request {
	return kubectl.Request{Tool: kubectl.ToolGet, Resource: "pods", Namespace: "default"}
}

func TestToolCallRendering(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true, false)

	r.ToolCall(testRequest(), kubectl.Result{Stdout: "ok", Elapsed: 120 * time.Millisecond})

	out := buf.String()
	assert.Contains(t, out, "kubectl get pods -n default")
	assert.Contains(t, out, "120ms")
	assert.NotContains(t, out, "ok", "output preview only appears in verbose mode")
}

func TestToolCallHiddenWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false, false)

	r.ToolCall(testRequest(), kubectl.Result{Stdout: "ok"})

	assert.Empty(t, buf.String())
}

func TestToolCallVerboseShowsPreview(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true, true)

	r.ToolCall(testRequest(), kubectl.Result{Stdout: "NAME READY\nweb-0 1/1"})

	assert.Contains(t, buf.String(), "web-0")
}

func TestAnswerAndFailure(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true, false)

	r.Answer("Two pods are running.\n")
	r.Failure("reasoning loop exceeded 20 steps")

	out := buf.String()
	assert.Contains(t, out, "Two pods are running.")
	assert.Contains(t, out, "exceeded 20 steps")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true, false)

	r.Banner("kind-dev", "default")

	out := buf.String()
	assert.Contains(t, out, "kube-assistant interactive")
	assert.Contains(t, out, "kind-dev")
	assert.Contains(t, out, "namespace: default")
}
