package rules

import (
	"fmt"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// Matcher is a predicate over node fields used to select rule subjects and
// targets. The variants form a small closed set; unknown matcher fields are
// rejected at rule-load time rather than silently matching nothing.
type Matcher interface {
	Matches(node schemas.Node) bool
	// Describe renders the matcher for violation messages.
	Describe() string
}

// Always matches every node. An empty matcher block in a rule document
// compiles to this: absence of a field means "match anything".
type Always struct{}

func (Always) Matches(schemas.Node) bool { return true }
func (Always) Describe() string          { return "any node" }

// KindIs matches nodes whose kind equals the given value exactly.
type KindIs struct {
	Kind schemas.NodeKind
}

func (m KindIs) Matches(node schemas.Node) bool { return node.Kind == m.Kind }
func (m KindIs) Describe() string               { return fmt.Sprintf("kind=%s", m.Kind) }

// compileMatcher turns a raw matcher mapping into a typed predicate. The only
// recognized field today is "kind"; anything else is a configuration error.
func compileMatcher(raw map[string]any, where string) (Matcher, error) {
	if len(raw) == 0 {
		return Always{}, nil
	}
	for key := range raw {
		if key != "kind" {
			return nil, fmt.Errorf("%w: %s: unknown matcher field %q", ErrInvalidRule, where, key)
		}
	}
	kind, ok := raw["kind"].(string)
	if !ok || kind == "" {
		return nil, fmt.Errorf("%w: %s: matcher field \"kind\" must be a non-empty string", ErrInvalidRule, where)
	}
	return KindIs{Kind: schemas.NodeKind(kind)}, nil
}
