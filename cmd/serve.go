package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
	"github.com/kube-assistant/kube-assistant/internal/logging"
)

// newServeCmd creates the command that exposes the three read-only
// inspection tools over MCP stdio, so MCP clients get the same safety
// boundary the assistant itself uses.
func newServeCmd() *cobra.Command {
	var (
		kubeContext string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the read-only inspection tools over MCP stdio",
		Long: `Run an MCP server over stdio exposing the get, describe and logs
tools. The same allow-list enforcement applies: mutating verbs do not
exist in this server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(false)
			executor, err := kubectl.NewExecutor(
				kubectl.WithRunner(kubectl.NewKubectlRunner(kubeContext)),
				kubectl.WithTimeout(timeout),
				kubectl.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			mcpSrv := mcpserver.NewMCPServer("kube-assistant", rootCmd.Version,
				mcpserver.WithToolCapabilities(true),
			)
			registerInspectionTools(mcpSrv, executor)

			if err := mcpserver.ServeStdio(mcpSrv); err != nil {
				return fmt.Errorf("server stopped with error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kubeContext, "context", "", "Kubeconfig context to run commands against")
	cmd.Flags().DurationVar(&timeout, "timeout", kubectl.DefaultTimeout, "Per-command execution timeout")
	return cmd
}

// registerInspectionTools registers one MCP tool per allowed verb.
func registerInspectionTools(s *mcpserver.MCPServer, executor *kubectl.Executor) {
	descriptions := map[kubectl.Tool]string{
		kubectl.ToolGet:      "List or fetch Kubernetes resources, like 'kubectl get'. Read-only.",
		kubectl.ToolDescribe: "Show detailed state and events of a resource, like 'kubectl describe'. Read-only.",
		kubectl.ToolLogs:     "Fetch container logs of a pod, like 'kubectl logs'. Read-only.",
	}

	for _, tool := range kubectl.AllowedTools() {
		tool := tool
		opts := []mcp.ToolOption{
			mcp.WithDescription(descriptions[tool]),
			mcp.WithString("namespace",
				mcp.Description("Target namespace (default: \"default\")"),
			),
			mcp.WithArray("args",
				mcp.Description("Extra read-only flags, e.g. [\"-o\", \"wide\"]"),
			),
		}
		if tool == kubectl.ToolLogs {
			opts = append(opts, mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Pod name to fetch logs from"),
			))
		} else {
			opts = append(opts,
				mcp.WithString("resource",
					mcp.Required(),
					mcp.Description("Resource kind, e.g. pods, deployments, services"),
				),
				mcp.WithString("name",
					mcp.Description("Optional resource name"),
				),
			)
		}

		s.AddTool(mcp.NewTool("kubernetes_"+string(tool), opts...), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleInspectionTool(ctx, request, executor, tool)
		})
	}
}

// handleInspectionTool maps an MCP call onto the executor. Authorization
// and execution failures come back as tool errors, never as protocol
// errors.
func handleInspectionTool(ctx context.Context, request mcp.CallToolRequest, executor *kubectl.Executor, tool kubectl.Tool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := kubectl.Request{Tool: tool}
	req.Namespace, _ = args["namespace"].(string)
	req.Name, _ = args["name"].(string)
	if tool != kubectl.ToolLogs {
		resource, ok := args["resource"].(string)
		if !ok || resource == "" {
			return mcp.NewToolResultError("resource is required"), nil
		}
		req.Resource = resource
	}
	if extra, ok := args["args"].([]any); ok {
		for _, v := range extra {
			if s, ok := v.(string); ok {
				req.Args = append(req.Args, s)
			}
		}
	}

	result, err := executor.Execute(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result.Failed() {
		return mcp.NewToolResultError(result.Observation()), nil
	}
	return mcp.NewToolResultText(result.Observation()), nil
}
