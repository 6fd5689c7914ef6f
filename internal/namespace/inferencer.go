// Package namespace infers the target Kubernetes namespace for a query.
//
// Resolution order: an explicit flag always wins; then kubectl-style
// "-n <value>" / "--namespace <value>" syntax embedded in the query text;
// then a conservative scan for a namespace name bound to a "namespace"
// mention in free text; otherwise the default namespace. Inference never
// fails: absence of evidence is the default case, not an error. Ambiguity
// (multiple distinct candidates) also resolves to the default rather than
// guessing, so the assistant never silently queries the wrong namespace.
package namespace

import (
	"regexp"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Default is the namespace used when nothing in the query selects one.
const Default = corev1.NamespaceDefault

// flagPattern matches kubectl-style namespace syntax copied into a query,
// e.g. "get pods -n kube-system" or "--namespace=monitoring".
var flagPattern = regexp.MustCompile(`(?:^|\s)(?:--namespace|-n)(?:=|\s+)([A-Za-z0-9][A-Za-z0-9-]*)`)

// phrasePatterns match free-text namespace mentions. Each pattern requires
// the literal word "namespace" adjacent to the candidate so that ordinary
// nouns ("in production") are never mistaken for namespace names.
var phrasePatterns = []*regexp.Regexp{
	// "in the kube-system namespace", "from the monitoring namespace"
	regexp.MustCompile(`(?i)\b(?:in|from|inside|within|under)\s+(?:the\s+)?([A-Za-z0-9][A-Za-z0-9-]*)\s+namespaces?\b`),
	// "the kube-system namespace"
	regexp.MustCompile(`(?i)\bthe\s+([A-Za-z0-9][A-Za-z0-9-]*)\s+namespaces?\b`),
	// "namespace kube-system"
	regexp.MustCompile(`(?i)\bnamespaces?\s+([A-Za-z0-9][A-Za-z0-9-]*)\b`),
}

// stopwords are tokens the phrase patterns can capture that are grammar, not
// namespace names.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "this": {}, "that": {}, "my": {},
	"same": {}, "current": {}, "given": {}, "specified": {}, "selected": {},
	"which": {}, "what": {}, "every": {}, "each": {}, "any": {}, "all": {},
	"some": {}, "one": {}, "new": {}, "other": {}, "another": {}, "it": {},
	"is": {}, "are": {}, "called": {}, "named": {},
}

// Infer resolves the namespace for a query. An explicit flag value is
// returned verbatim; otherwise the query text is inspected as described in
// the package comment.
func Infer(queryText, explicitFlag string) string {
	if explicitFlag != "" {
		return explicitFlag
	}
	if ns, ok := fromFlagSyntax(queryText); ok {
		return ns
	}
	if ns, ok := fromPhrase(queryText); ok {
		return ns
	}
	return Default
}

// fromFlagSyntax extracts a namespace from embedded kubectl flag syntax.
// Multiple distinct values are ambiguous and yield no result.
func fromFlagSyntax(text string) (string, bool) {
	return sole(candidates(text, flagPattern))
}

// fromPhrase extracts a namespace from free-text mentions. Patterns are
// tried most-specific first; the first pattern with any candidate decides,
// and only a single unambiguous, valid name is accepted from it.
func fromPhrase(text string) (string, bool) {
	for _, pattern := range phrasePatterns {
		if found := candidates(text, pattern); len(found) > 0 {
			return sole(found)
		}
	}
	return "", false
}

func candidates(text string, patterns ...*regexp.Regexp) map[string]struct{} {
	found := map[string]struct{}{}
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			token := strings.ToLower(match[1])
			if _, skip := stopwords[token]; skip {
				continue
			}
			if len(validation.IsDNS1123Label(token)) > 0 {
				continue
			}
			found[token] = struct{}{}
		}
	}
	return found
}

// sole returns the candidate only when exactly one distinct value was found.
func sole(found map[string]struct{}) (string, bool) {
	if len(found) != 1 {
		return "", false
	}
	for ns := range found {
		return ns, true
	}
	return "", false
}
