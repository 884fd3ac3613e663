package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for DetectCliFramework:
// - typer wins over click and argparse
// - click wins over argparse
// - argparse detected alone
// - no framework yields nil
// - only the name field is populated

func TestDetectCliFramework_Priority(t *testing.T) {
	t.Parallel()

	imports := []ImportInfo{
		{Module: "argparse"},
		{Module: "click"},
		{Module: "typer"},
	}
	fw := DetectCliFramework(imports)
	require.NotNil(t, fw)
	assert.Equal(t, "typer", fw.Name)
}

func TestDetectCliFramework_ClickOverArgparse(t *testing.T) {
	t.Parallel()

	fw := DetectCliFramework([]ImportInfo{{Module: "argparse"}, {Module: "click"}})
	require.NotNil(t, fw)
	assert.Equal(t, "click", fw.Name)
}

func TestDetectCliFramework_Argparse(t *testing.T) {
	t.Parallel()

	fw := DetectCliFramework([]ImportInfo{{Module: "argparse"}})
	require.NotNil(t, fw)
	assert.Equal(t, "argparse", fw.Name)

	// Detection is name-only; the remaining fields are extension seams.
	assert.Nil(t, fw.Version)
	assert.Empty(t, fw.DetectedCommands)
	assert.Nil(t, fw.MainCallable)
}

func TestDetectCliFramework_None(t *testing.T) {
	t.Parallel()

	assert.Nil(t, DetectCliFramework([]ImportInfo{{Module: "os"}, {Module: "sys"}}))
	assert.Nil(t, DetectCliFramework(nil))
}
