package introspect

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Inline metadata block markers, matched exactly after trimming whitespace.
const (
	metaBlockOpen  = "# /// script"
	metaBlockClose = "# ///"
)

// ParseInlineMetadata extracts the inline metadata block from script text.
// Lines between the opening and closing markers are un-prefixed and parsed
// as TOML; if that fails, a line heuristic recognizes a single
// `dependencies = [...]` assignment. Returns nil when no well-formed block
// is present or neither strategy yields anything — absence is not an error,
// and malformed blocks never fail the surrounding analysis.
func ParseInlineMetadata(content string) *InlineMetadataBlock {
	var bodyLines []string
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == metaBlockOpen:
			inBlock = true
		case trimmed == metaBlockClose && inBlock:
			return parseBlockBody(bodyLines)
		case inBlock && strings.HasPrefix(trimmed, "#"):
			bodyLines = append(bodyLines, strings.TrimPrefix(trimmed[1:], " "))
		}
	}

	// No closing marker: the block is malformed, treat as absent.
	return nil
}

func parseBlockBody(lines []string) *InlineMetadataBlock {
	if len(lines) == 0 {
		return nil
	}

	var doc struct {
		Dependencies   []string       `toml:"dependencies"`
		RequiresPython *string        `toml:"requires-python"`
		Tool           map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal([]byte(strings.Join(lines, "\n")), &doc); err == nil {
		block := &InlineMetadataBlock{
			Dependencies:   doc.Dependencies,
			MinInterpreter: doc.RequiresPython,
			ToolConfig:     doc.Tool,
		}
		if block.Dependencies == nil {
			block.Dependencies = []string{}
		}
		if block.ToolConfig == nil {
			block.ToolConfig = map[string]any{}
		}
		return block
	}

	if deps := parseDependencyLine(lines); len(deps) > 0 {
		return &InlineMetadataBlock{
			Dependencies: deps,
			ToolConfig:   map[string]any{},
		}
	}
	return nil
}

// parseDependencyLine is the tolerant fallback for block bodies that are not
// valid TOML: a single-line `dependencies = ["a", 'b>=1']` assignment is
// split on commas and quote-stripped.
func parseDependencyLine(lines []string) []string {
	for _, line := range lines {
		if !strings.HasPrefix(line, "dependencies = ") {
			continue
		}
		list := strings.TrimSpace(strings.TrimPrefix(line, "dependencies = "))
		if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
			continue
		}
		var deps []string
		for _, item := range strings.Split(list[1:len(list)-1], ",") {
			if dep := strings.Trim(item, ` "'`); dep != "" {
				deps = append(deps, dep)
			}
		}
		if len(deps) > 0 {
			return deps
		}
	}
	return nil
}
