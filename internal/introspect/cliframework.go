package introspect

// cliFrameworks in detection priority order.
var cliFrameworks = []string{"typer", "click", "argparse"}

// DetectCliFramework infers the argument-parsing framework from the import
// set by fixed priority: typer over click over argparse. Only the name is
// populated; version and sub-command detection are extension seams.
func DetectCliFramework(imports []ImportInfo) *CliFrameworkInfo {
	modules := make(map[string]bool, len(imports))
	for _, imp := range imports {
		modules[imp.Module] = true
	}

	for _, fw := range cliFrameworks {
		if modules[fw] {
			return &CliFrameworkInfo{
				Name:             fw,
				DetectedCommands: []string{},
			}
		}
	}
	return nil
}
