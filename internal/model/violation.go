package model

import (
	"strings"
)

// Violation is a single constraint failure reported by validation for one
// field (Path) of a command.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the violation as "<path> <message>", e.g.
// "area must not be blank".
func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + " " + v.Message
}

// JoinViolations renders violations as one line, separated by ", ".
func JoinViolations(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}
