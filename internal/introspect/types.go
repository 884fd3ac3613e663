// Package introspect implements static introspection of single-file Python
// scripts. Given script source text it produces a versioned, machine-readable
// description of the script's shape: docstring, inline metadata block,
// functions, classes, imports, inferred dependencies, and CLI entry points.
//
// The engine never executes the target script in safe mode. The import mode
// adds one explicitly-gated enhancement step that is permitted to execute
// target code; see Introspector.
package introspect

// SchemaVersion identifies the shape of the result envelope.
const SchemaVersion = "1.0.0"

// Error kinds recorded in ScriptMetadata.Errors.
const (
	ErrKindSyntax  = "SyntaxError"
	ErrKindRuntime = "RuntimeError"
	ErrKindImport  = "ImportError"
)

// IntrospectionResult is the versioned envelope emitted for one script.
// ContentHash is computed over the raw input bytes regardless of parse
// outcome, so it can serve as a stable identity key.
type IntrospectionResult struct {
	SchemaVersion      string         `json:"schema_version"`
	InterpreterVersion string         `json:"interpreter_version"`
	ContentHash        string         `json:"content_hash"`
	Metadata           ScriptMetadata `json:"metadata"`
}

// ScriptMetadata holds everything extracted from one script. Sequence fields
// are always non-nil (serialized as empty arrays) even on failure; optional
// fields are explicit nulls.
type ScriptMetadata struct {
	Name                string               `json:"name"`
	Path                string               `json:"path"`
	Description         *string              `json:"description"`
	Docstring           *string              `json:"docstring"`
	InlineMetadataBlock *InlineMetadataBlock `json:"inline_metadata_block"`
	Dependencies        []DependencyInfo     `json:"dependencies"`
	EntryPoints         []EntryPointInfo     `json:"entry_points"`
	Functions           []FunctionInfo       `json:"functions"`
	Classes             []ClassInfo          `json:"classes"`
	Imports             []ImportInfo         `json:"imports"`
	CliFramework        *CliFrameworkInfo    `json:"cli_framework"`
	Errors              []ErrorRecord        `json:"errors"`
}

// InlineMetadataBlock is the parsed `# /// script` comment block. Absence of
// a block is represented by a nil pointer, not an error.
type InlineMetadataBlock struct {
	Dependencies   []string       `json:"dependencies"`
	MinInterpreter *string        `json:"min_interpreter"`
	ToolConfig     map[string]any `json:"tool_config"`
}

// Provenance tags where a dependency candidate came from.
type Provenance string

const (
	// ProvenanceDeclared marks a dependency declared in the inline metadata
	// block. Declared entries are authoritative.
	ProvenanceDeclared Provenance = "Declared"
	// ProvenanceInferred marks a dependency guessed from an import statement.
	// Inferred entries are heuristic and intentionally not filtered against
	// a standard-library list.
	ProvenanceInferred Provenance = "Inferred"
)

// DependencyInfo is one dependency candidate. A name may appear twice with
// different provenance; no cross-provenance deduplication is performed.
type DependencyInfo struct {
	Name        string     `json:"name"`
	VersionSpec *string    `json:"version_spec"`
	Provenance  Provenance `json:"provenance"`
}

// EntryKind classifies how an entry point was recognized.
type EntryKind string

const (
	EntryMainFunction EntryKind = "MainFunction"
	EntryCliCommand   EntryKind = "CliCommand"
)

// EntryPointInfo describes a function identified as a likely program entry.
type EntryPointInfo struct {
	Name     string    `json:"name"`
	Callable string    `json:"callable"`
	Module   *string   `json:"module"`
	Kind     EntryKind `json:"kind"`
}

// ParameterInfo describes one declared function parameter.
type ParameterInfo struct {
	Name       string  `json:"name"`
	TypeHint   *string `json:"type_hint"`
	Default    *string `json:"default"`
	HasDefault bool    `json:"has_default"`
}

// FunctionInfo describes a function definition at any nesting depth.
type FunctionInfo struct {
	Name       string          `json:"name"`
	Line       int             `json:"line"`
	Docstring  *string         `json:"docstring"`
	Parameters []ParameterInfo `json:"parameters"`
	Returns    *string         `json:"returns"`
	Decorators []string        `json:"decorators"`
	IsAsync    bool            `json:"is_async"`
}

// ClassInfo describes a class definition with its direct methods.
type ClassInfo struct {
	Name        string         `json:"name"`
	Line        int            `json:"line"`
	Docstring   *string        `json:"docstring"`
	Methods     []FunctionInfo `json:"methods"`
	BaseClasses []string       `json:"base_classes"`
}

// ImportInfo describes one import statement. Module is the dotted module
// path; it is empty for a bare relative import. Names is empty for the plain
// `import x` form.
type ImportInfo struct {
	Module       string   `json:"module"`
	Names        []string `json:"names"`
	Alias        *string  `json:"alias"`
	IsFromImport bool     `json:"is_from_import"`
	Line         int      `json:"line"`
}

// CliFrameworkInfo names the argument-parsing framework inferred from the
// import set. Version and DetectedCommands are extension seams; detection is
// currently name-only.
type CliFrameworkInfo struct {
	Name             string   `json:"name"`
	Version          *string  `json:"version"`
	DetectedCommands []string `json:"detected_commands"`
	MainCallable     *string  `json:"main_callable"`
}

// ErrorRecord is one recoverable failure accumulated during analysis. A
// populated error list is informational, not a process failure signal.
type ErrorRecord struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    *int   `json:"line"`
}

// fallbackMetadata is the fixed shape returned when structural extraction
// fails: every list empty, every optional nil, errors carrying the recorded
// record(s).
func fallbackMetadata(name, path string, errs []ErrorRecord) ScriptMetadata {
	if errs == nil {
		errs = []ErrorRecord{}
	}
	return ScriptMetadata{
		Name:         name,
		Path:         path,
		Dependencies: []DependencyInfo{},
		EntryPoints:  []EntryPointInfo{},
		Functions:    []FunctionInfo{},
		Classes:      []ClassInfo{},
		Imports:      []ImportInfo{},
		Errors:       errs,
	}
}
