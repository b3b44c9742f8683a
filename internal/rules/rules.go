// Package rules evaluates declarative require/deny constraints against a
// loaded graph. Rule documents are validated up front into typed predicates;
// evaluation itself is pure and deterministic.
package rules

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kestrelworks/archgraph-cli/api/schemas"
)

// ErrInvalidRule marks a structurally malformed rule document. It is a
// configuration error: evaluation never runs against a rule set that failed
// validation.
var ErrInvalidRule = errors.New("invalid rule document")

// Mode distinguishes the two rule shapes.
type Mode string

const (
	// ModeRequire demands at least one qualifying outgoing edge.
	ModeRequire Mode = "require"
	// ModeDeny forbids any qualifying outgoing edge.
	ModeDeny Mode = "deny"
)

// Rule is a compiled, validated constraint ready for evaluation.
type Rule struct {
	Name     string
	Severity schemas.Severity
	Mode     Mode
	For      Matcher
	Target   Matcher
	EdgeKind schemas.EdgeKind
}

// -- Document shapes --

type rawRuleDoc struct {
	Version int       `yaml:"version"`
	Rules   []rawRule `yaml:"rules"`
}

type rawRule struct {
	Name     string      `yaml:"name"`
	Severity string      `yaml:"severity"`
	Require  *rawRequire `yaml:"require"`
	Deny     *rawDeny    `yaml:"deny"`
}

type rawRequire struct {
	For       map[string]any `yaml:"for"`
	HasEdgeTo map[string]any `yaml:"has_edge_to"`
	EdgeKind  string         `yaml:"edge_kind"`
}

type rawDeny struct {
	For          map[string]any `yaml:"for"`
	DeniedEdgeTo map[string]any `yaml:"denied_edge_to"`
	EdgeKind     string         `yaml:"edge_kind"`
}

// Parse decodes and validates a rule document. Any structural problem --
// unparsable YAML, a rule with neither or both shapes, a missing edge_kind, an
// unknown matcher field, a bad severity -- aborts the whole parse with a
// typed failure; there is no partially-usable rule set.
func Parse(data []byte) ([]Rule, error) {
	var doc rawRuleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for i, raw := range doc.Rules {
		rule, err := compileRule(raw, i)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileRule(raw rawRule, index int) (Rule, error) {
	where := raw.Name
	if where == "" {
		return Rule{}, fmt.Errorf("%w: rule %d: missing name", ErrInvalidRule, index)
	}

	severity, err := compileSeverity(raw.Severity, where)
	if err != nil {
		return Rule{}, err
	}

	switch {
	case raw.Require != nil && raw.Deny != nil:
		return Rule{}, fmt.Errorf("%w: rule %q: has both require and deny blocks", ErrInvalidRule, where)
	case raw.Require != nil:
		return compileShape(where, severity, ModeRequire, raw.Require.For, raw.Require.HasEdgeTo, raw.Require.EdgeKind)
	case raw.Deny != nil:
		return compileShape(where, severity, ModeDeny, raw.Deny.For, raw.Deny.DeniedEdgeTo, raw.Deny.EdgeKind)
	default:
		return Rule{}, fmt.Errorf("%w: rule %q: needs a require or deny block", ErrInvalidRule, where)
	}
}

func compileShape(name string, severity schemas.Severity, mode Mode, rawFor, rawTarget map[string]any, edgeKind string) (Rule, error) {
	if edgeKind == "" {
		return Rule{}, fmt.Errorf("%w: rule %q: missing edge_kind", ErrInvalidRule, name)
	}
	forMatcher, err := compileMatcher(rawFor, fmt.Sprintf("rule %q, for", name))
	if err != nil {
		return Rule{}, err
	}
	targetMatcher, err := compileMatcher(rawTarget, fmt.Sprintf("rule %q, target", name))
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Name:     name,
		Severity: severity,
		Mode:     mode,
		For:      forMatcher,
		Target:   targetMatcher,
		EdgeKind: schemas.EdgeKind(edgeKind),
	}, nil
}

func compileSeverity(raw, where string) (schemas.Severity, error) {
	switch schemas.Severity(raw) {
	case schemas.SeverityError, schemas.SeverityWarning:
		return schemas.Severity(raw), nil
	case "":
		// Unstated severity defaults to error, the safe direction.
		return schemas.SeverityError, nil
	default:
		return "", fmt.Errorf("%w: rule %q: unknown severity %q", ErrInvalidRule, where, raw)
	}
}
