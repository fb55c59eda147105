package service

import (
	"fmt"
	"regexp"
	"strings"
)

// destructivePattern matches write-or-worse Cypher clauses as whole tokens,
// case-insensitively. Substrings inside identifiers (e.g. a property named
// "offset" or a place called "Sunset Deli") do not match.
var destructivePattern = regexp.MustCompile(`(?i)\b(delete|detach|create|set|remove|merge|drop)\b`)

// ValidateCypher checks a generated Cypher statement against the read-only
// policy. It is the sole gate between the generation step and the executor:
// any destructive clause rejects the statement outright, with no retry.
// Pure predicate, no side effects.
func ValidateCypher(stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return fmt.Errorf("%w: empty statement", ErrValidationRejected)
	}
	if match := destructivePattern.FindString(stmt); match != "" {
		return fmt.Errorf("%w: contains %s clause", ErrValidationRejected, strings.ToUpper(match))
	}
	return nil
}
