package kubectl

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
)

// ContextInfo describes the kubeconfig context commands will run against.
type ContextInfo struct {
	Name      string
	Namespace string
}

// CurrentContext reads the kubeconfig (honoring KUBECONFIG) and reports the
// context the runner will use. With name empty the current context applies.
func CurrentContext(name string) (ContextInfo, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	cfg, err := rules.Load()
	if err != nil {
		return ContextInfo{}, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	if name == "" {
		name = cfg.CurrentContext
	}
	if name == "" {
		return ContextInfo{}, fmt.Errorf("kubeconfig has no current context")
	}

	kctx, ok := cfg.Contexts[name]
	if !ok {
		return ContextInfo{}, fmt.Errorf("context %q not found in kubeconfig", name)
	}
	return ContextInfo{Name: name, Namespace: kctx.Namespace}, nil
}
