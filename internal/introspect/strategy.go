package introspect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the trust tier. It is always caller-supplied; there is no
// auto-detection.
type Mode string

const (
	// ModeSafe performs static analysis only. The target script's code is
	// never evaluated, imported, or otherwise executed.
	ModeSafe Mode = "safe"
	// ModeImport runs the safe analysis to completion, then one gated
	// enhancement step that is permitted to execute target code.
	ModeImport Mode = "import"
)

// ParseMode validates a mode string from the command surface.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSafe, ModeImport:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, ModeSafe, ModeImport)
	}
}

// Introspector analyzes one script. Every invocation is stateless and
// self-contained; nothing persists across calls.
type Introspector struct {
	scriptPath string
	mode       Mode
}

func New(scriptPath string, mode Mode) *Introspector {
	return &Introspector{scriptPath: scriptPath, mode: mode}
}

// Introspect produces the script's metadata from its raw source bytes. In
// import mode the enhancement step runs after the safe pass; its failure is
// recorded as an ImportError and never discards the safe-tier results.
func (in *Introspector) Introspect(content []byte) ScriptMetadata {
	md := in.introspectStatic(content)

	if in.mode == ModeImport {
		if err := in.enhanceWithImports(&md); err != nil {
			md.Errors = append(md.Errors, ErrorRecord{
				Kind:    ErrKindImport,
				Message: fmt.Sprintf("import-based analysis failed: %v", err),
			})
		}
	}

	return md
}

// introspectStatic is the safe tier: metadata block parsing, syntax
// analysis, dependency resolution, and CLI framework detection, with no
// execution of target code anywhere.
func (in *Introspector) introspectStatic(content []byte) ScriptMetadata {
	facts, errRec := analyzeSyntax(content)
	if errRec != nil {
		return fallbackMetadata(in.name(), in.scriptPath, []ErrorRecord{*errRec})
	}

	block := ParseInlineMetadata(string(content))

	return ScriptMetadata{
		Name:                in.name(),
		Path:                in.scriptPath,
		Description:         facts.description,
		Docstring:           facts.docstring,
		InlineMetadataBlock: block,
		Dependencies:        ResolveDependencies(block, facts.imports),
		EntryPoints:         facts.entryPoints,
		Functions:           facts.functions,
		Classes:             facts.classes,
		Imports:             facts.imports,
		CliFramework:        DetectCliFramework(facts.imports),
		Errors:              []ErrorRecord{},
	}
}

// enhanceWithImports is the only place in the engine permitted to import or
// otherwise execute code drawn from the target script. It currently
// performs no additional extraction; the seam exists so future dynamic
// analysis lands here without touching the safe path, keeping the trust
// boundary auditable in one place.
func (in *Introspector) enhanceWithImports(md *ScriptMetadata) error {
	return nil
}

// name is the script filename without its extension.
func (in *Introspector) name() string {
	base := filepath.Base(in.scriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
