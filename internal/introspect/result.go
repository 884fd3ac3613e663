package introspect

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// ErrScriptNotFound is returned by the pre-flight existence check. It is the
// only failure allowed to prevent envelope construction entirely.
var ErrScriptNotFound = errors.New("script not found")

// HashContent returns the hex sha256 digest of raw script bytes. The hash is
// a pure function of the bytes, independent of parse success.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// InterpreterVersion identifies the runtime that produced a result.
func InterpreterVersion() string {
	return "Go " + strings.TrimPrefix(runtime.Version(), "go")
}

// Introspect reads the script at scriptPath and assembles the full result
// envelope. The content hash is computed over the exact raw bytes before any
// parsing, so it is identical whether analysis succeeds or fails.
func Introspect(scriptPath string, mode Mode) (*IntrospectionResult, error) {
	if _, err := os.Stat(scriptPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, scriptPath)
		}
		return nil, fmt.Errorf("failed to stat script: %w", err)
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return Assemble(scriptPath, mode, content), nil
}

// Assemble wraps the extracted metadata in the versioned envelope.
func Assemble(scriptPath string, mode Mode, content []byte) *IntrospectionResult {
	hash := HashContent(content)
	md := New(scriptPath, mode).Introspect(content)
	return &IntrospectionResult{
		SchemaVersion:      SchemaVersion,
		InterpreterVersion: InterpreterVersion(),
		ContentHash:        hash,
		Metadata:           md,
	}
}

// EncodeJSON writes the pretty-printed envelope. HTML escaping is disabled
// so non-ASCII and angle-bracket text round-trips exactly.
func (r *IntrospectionResult) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
