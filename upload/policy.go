package upload

import (
	"fmt"
	"strings"
)

var policyNames = map[string]DuplicatePolicy{
	"move":     DuplicateMove,
	"redirect": DuplicateRedirect,
	"skip":     DuplicateSkip,
	"fail":     DuplicateFail,
}

// ParseDuplicatePolicy maps a config value to a policy; empty means move.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DuplicateMove, nil
	}
	p, ok := policyNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown duplicate policy %q", s)
	}
	return p, nil
}
