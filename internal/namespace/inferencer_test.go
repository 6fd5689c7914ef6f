package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		flag     string
		expected string
	}{
		{
			name:     "explicit flag wins verbatim",
			query:    "show me pods in the kube-system namespace",
			flag:     "monitoring",
			expected: "monitoring",
		},
		{
			name:     "embedded -n syntax",
			query:    "get pods -n kube-system",
			expected: "kube-system",
		},
		{
			name:     "embedded --namespace syntax",
			query:    "what deployments exist --namespace monitoring",
			expected: "monitoring",
		},
		{
			name:     "embedded --namespace= syntax",
			query:    "get events --namespace=ingress-nginx",
			expected: "ingress-nginx",
		},
		{
			name:     "in the X namespace phrase",
			query:    "show me pods in the default namespace",
			expected: "default",
		},
		{
			name:     "question about the kube-system namespace",
			query:    "what's happening in the kube-system namespace?",
			expected: "kube-system",
		},
		{
			name:     "the X namespace without preposition",
			query:    "describe the failing pods of the monitoring namespace deployments",
			expected: "monitoring",
		},
		{
			name:     "namespace X phrase",
			query:    "list everything in namespace cert-manager",
			expected: "cert-manager",
		},
		{
			name:     "no mention defaults",
			query:    "why is my deployment failing?",
			expected: Default,
		},
		{
			name:     "bare namespace word defaults",
			query:    "which namespace is the busiest?",
			expected: Default,
		},
		{
			name:     "two distinct phrase candidates default",
			query:    "compare the kube-system namespace with the monitoring namespace",
			expected: Default,
		},
		{
			name:     "two distinct embedded flags default",
			query:    "run get pods -n alpha and -n beta",
			expected: Default,
		},
		{
			name:     "repeated identical mention is unambiguous",
			query:    "in the kube-system namespace, what pods run? anything odd in the kube-system namespace?",
			expected: "kube-system",
		},
		{
			name:     "invalid label is rejected",
			query:    "show pods in the Kube_System! namespace",
			expected: Default,
		},
		{
			name:     "embedded flag beats phrase mention",
			query:    "get pods -n monitoring from the default namespace listing",
			expected: "monitoring",
		},
		{
			name:     "empty query defaults",
			query:    "",
			expected: Default,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Infer(tt.query, tt.flag))
		})
	}
}

// Identical inputs must always produce identical output.
func TestInferDeterministic(t *testing.T) {
	query := "compare the kube-system namespace with the monitoring namespace"
	first := Infer(query, "")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Infer(query, ""))
	}
}

func TestInferFlagAlwaysOverrides(t *testing.T) {
	queries := []string{
		"get pods -n kube-system",
		"in the monitoring namespace",
		"plain question",
	}
	for _, q := range queries {
		assert.Equal(t, "explicit", Infer(q, "explicit"))
	}
}
