package llm

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
)

// toolDefinitions declares the three read-only inspection verbs to the
// model. This schema is the contract the model's structured responses must
// conform to; nothing outside it is executable.
func toolDefinitions() []openai.Tool {
	descriptions := map[kubectl.Tool]string{
		kubectl.ToolGet:      "List or fetch Kubernetes resources, like 'kubectl get'. Read-only.",
		kubectl.ToolDescribe: "Show detailed state and events of a resource, like 'kubectl describe'. Read-only.",
		kubectl.ToolLogs:     "Fetch container logs of a pod, like 'kubectl logs'. Read-only.",
	}

	tools := make([]openai.Tool, 0, len(descriptions))
	for _, tool := range kubectl.AllowedTools() {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        string(tool),
				Description: descriptions[tool],
				Parameters:  toolParameters(tool),
			},
		})
	}
	return tools
}

func toolParameters(tool kubectl.Tool) jsonschema.Definition {
	properties := map[string]jsonschema.Definition{
		"namespace": {
			Type:        jsonschema.String,
			Description: "Target namespace. Defaults to the namespace resolved for the query.",
		},
		"args": {
			Type:        jsonschema.Array,
			Items:       &jsonschema.Definition{Type: jsonschema.String},
			Description: "Extra read-only flags, e.g. [\"-o\", \"wide\"] or [\"--tail\", \"50\"].",
		},
	}
	required := []string{}

	switch tool {
	case kubectl.ToolLogs:
		properties["name"] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: "Pod name to fetch logs from.",
		}
		required = append(required, "name")
	default:
		properties["resource"] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: "Resource kind, e.g. pods, deployments, services, events.",
		}
		properties["name"] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: "Optional resource name. Omit to operate on all resources of the kind.",
		}
		required = append(required, "resource")
	}

	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: properties,
		Required:   required,
	}
}
