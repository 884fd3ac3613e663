// Package docgen defines the contract for the external documentation
// generator that consumes introspection output and returns a natural
// language description. The generator itself lives outside this repository;
// only its request/response shapes and the length-limit rule are fixed here
// so the engine and its tests can speak the interface.
package docgen

import (
	"context"
	"strings"
)

// FunctionDoc pairs a function name with its docstring, if any.
type FunctionDoc struct {
	Name      string  `json:"name"`
	Docstring *string `json:"docstring"`
}

// Request carries the extracted facts a generator needs.
type Request struct {
	ScriptText          string        `json:"script_text"`
	EntryPointKind      string        `json:"entry_point_kind"`
	Functions           []FunctionDoc `json:"functions"`
	Dependencies        []string      `json:"dependencies"`
	ExistingDescription *string       `json:"existing_description"`
	MaxLength           int           `json:"max_length"`
}

// Response is the generator's answer. Description is nil when Success is
// false, in which case Error explains why.
type Response struct {
	Success     bool    `json:"success"`
	Description *string `json:"description"`
	Error       *string `json:"error"`
}

// Generator produces a description for one script.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Truncate enforces the maximum description length: when the text is over
// the limit it is cut at a word boundary and an ellipsis marker appended. A
// single over-long word is hard-cut to leave room for the marker.
func Truncate(description string, maxLength int) string {
	description = strings.TrimSpace(description)
	if len(description) <= maxLength {
		return description
	}

	words := strings.Fields(description[:maxLength])
	if len(words) > 1 {
		// Drop the last, potentially cut-off word.
		return strings.Join(words[:len(words)-1], " ") + "..."
	}
	return description[:maxLength-3] + "..."
}
