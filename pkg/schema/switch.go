package schema

import "github.com/dmitrymomot/tournament-auth/pkg/validator"

// SwitchNode picks a sub-schema from the raw value of a sibling field.
type SwitchNode struct {
	sibling  string
	fallback Node
	cases    map[string]Node
}

// Switch dispatches on the string value of sibling. When the sibling is
// missing, not a string or has no case, fallback is used; the sibling's own
// field reports why its value is unacceptable.
func Switch(sibling string, fallback Node, cases map[string]Node) *SwitchNode {
	return &SwitchNode{sibling: sibling, fallback: fallback, cases: cases}
}

// Select returns the node chosen for the given scope.
func (s *SwitchNode) Select(scope map[string]any) Node {
	if tag, ok := scope[s.sibling].(string); ok {
		if n, ok := s.cases[tag]; ok {
			return n
		}
	}
	return s.fallback
}

func (s *SwitchNode) Validate(path string, raw any, scope map[string]any) (any, validator.ValidationErrors) {
	return s.Select(scope).Validate(path, raw, scope)
}
