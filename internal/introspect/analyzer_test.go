package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for analyzeSyntax:
// - Module docstring and derived first-line description
// - Syntax errors short-circuit with kind SyntaxError and a line number
// - Parameter extraction with positional default alignment (a, b=1, c=2)
// - Typed parameters, typed defaults, and return annotations
// - Async functions flagged
// - Decorators rendered without the leading @
// - main function and click.command entry points
// - Classes with base classes, methods, and docstrings
// - Methods appear both under the class and in the flat function list
// - Plain, aliased, dotted, from, and relative imports with line numbers
// - Nested functions extracted in declaration order

func TestAnalyzeSyntax_DocstringAndDescription(t *testing.T) {
	t.Parallel()

	source := []byte(`"""Fetch weather data.

Supports several providers.
"""

import os
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.NotNil(t, facts.docstring)
	assert.Equal(t, "Fetch weather data.\n\nSupports several providers.\n", *facts.docstring)
	require.NotNil(t, facts.description)
	assert.Equal(t, "Fetch weather data.", *facts.description)
}

func TestAnalyzeSyntax_NoDocstring(t *testing.T) {
	t.Parallel()

	facts, errRec := analyzeSyntax([]byte("import os\n"))
	require.Nil(t, errRec)
	assert.Nil(t, facts.docstring)
	assert.Nil(t, facts.description)
}

func TestAnalyzeSyntax_SyntaxError(t *testing.T) {
	t.Parallel()

	facts, errRec := analyzeSyntax([]byte("def broken(:\n"))
	assert.Nil(t, facts)
	require.NotNil(t, errRec)
	assert.Equal(t, ErrKindSyntax, errRec.Kind)
	require.NotNil(t, errRec.Line)
	assert.Equal(t, 1, *errRec.Line)
}

func TestAnalyzeSyntax_ParameterDefaultAlignment(t *testing.T) {
	t.Parallel()

	facts, errRec := analyzeSyntax([]byte("def f(a, b=1, c=2):\n    pass\n"))
	require.Nil(t, errRec)
	require.Len(t, facts.functions, 1)

	params := facts.functions[0].Parameters
	require.Len(t, params, 3)

	assert.Equal(t, "a", params[0].Name)
	assert.False(t, params[0].HasDefault)
	assert.Nil(t, params[0].Default)

	assert.Equal(t, "b", params[1].Name)
	assert.True(t, params[1].HasDefault)
	require.NotNil(t, params[1].Default)
	assert.Equal(t, "1", *params[1].Default)

	assert.Equal(t, "c", params[2].Name)
	assert.True(t, params[2].HasDefault)
	require.NotNil(t, params[2].Default)
	assert.Equal(t, "2", *params[2].Default)
}

func TestAnalyzeSyntax_TypedParametersAndReturn(t *testing.T) {
	t.Parallel()

	source := []byte(`def g(x: int, y: str = "hi", *args, **kwargs) -> bool:
    """Doc for g."""
    return True
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.Len(t, facts.functions, 1)

	fn := facts.functions[0]
	assert.Equal(t, "g", fn.Name)
	assert.Equal(t, 1, fn.Line)
	require.NotNil(t, fn.Docstring)
	assert.Equal(t, "Doc for g.", *fn.Docstring)
	require.NotNil(t, fn.Returns)
	assert.Equal(t, "bool", *fn.Returns)

	// Splat parameters are skipped.
	require.Len(t, fn.Parameters, 2)
	require.NotNil(t, fn.Parameters[0].TypeHint)
	assert.Equal(t, "int", *fn.Parameters[0].TypeHint)
	assert.False(t, fn.Parameters[0].HasDefault)
	require.NotNil(t, fn.Parameters[1].TypeHint)
	assert.Equal(t, "str", *fn.Parameters[1].TypeHint)
	require.NotNil(t, fn.Parameters[1].Default)
	assert.Equal(t, `"hi"`, *fn.Parameters[1].Default)
}

func TestAnalyzeSyntax_AsyncFunction(t *testing.T) {
	t.Parallel()

	facts, errRec := analyzeSyntax([]byte("async def worker():\n    pass\n\ndef sync():\n    pass\n"))
	require.Nil(t, errRec)
	require.Len(t, facts.functions, 2)
	assert.True(t, facts.functions[0].IsAsync)
	assert.False(t, facts.functions[1].IsAsync)
}

func TestAnalyzeSyntax_DecoratorsAndEntryPoints(t *testing.T) {
	t.Parallel()

	source := []byte(`import click

@click.command()
@click.option("--name")
def greet(name):
    pass

def main():
    pass

def helper():
    pass
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.Len(t, facts.functions, 3)
	assert.Equal(t, []string{`click.command()`, `click.option("--name")`}, facts.functions[0].Decorators)

	require.Len(t, facts.entryPoints, 2)
	assert.Equal(t, EntryCliCommand, facts.entryPoints[0].Kind)
	assert.Equal(t, "greet", facts.entryPoints[0].Name)
	assert.Equal(t, "greet", facts.entryPoints[0].Callable)
	assert.Equal(t, EntryMainFunction, facts.entryPoints[1].Kind)
	assert.Equal(t, "main", facts.entryPoints[1].Name)
}

func TestAnalyzeSyntax_Classes(t *testing.T) {
	t.Parallel()

	source := []byte(`class Animal(Base, mammal.Mixin):
    """An animal."""

    def speak(self, volume=1):
        """Make a sound."""
        pass

    async def sleep(self):
        pass

x = 1
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.Len(t, facts.classes, 1)

	cls := facts.classes[0]
	assert.Equal(t, "Animal", cls.Name)
	assert.Equal(t, 1, cls.Line)
	require.NotNil(t, cls.Docstring)
	assert.Equal(t, "An animal.", *cls.Docstring)
	assert.Equal(t, []string{"Base", "mammal.Mixin"}, cls.BaseClasses)

	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "speak", cls.Methods[0].Name)
	require.Len(t, cls.Methods[0].Parameters, 2)
	assert.Equal(t, "self", cls.Methods[0].Parameters[0].Name)
	assert.True(t, cls.Methods[0].Parameters[1].HasDefault)
	assert.True(t, cls.Methods[1].IsAsync)

	// Methods are also visible in the flat function list.
	require.Len(t, facts.functions, 2)
	assert.Equal(t, "speak", facts.functions[0].Name)
	assert.Equal(t, "sleep", facts.functions[1].Name)
}

func TestAnalyzeSyntax_Imports(t *testing.T) {
	t.Parallel()

	source := []byte(`import os
import numpy as np
import os.path
from pathlib import Path, PurePath
from collections import OrderedDict as OD
from . import sibling
from .util import helper
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.Len(t, facts.imports, 7)

	assert.Equal(t, ImportInfo{Module: "os", Names: []string{}, Line: 1}, facts.imports[0])

	np := facts.imports[1]
	assert.Equal(t, "numpy", np.Module)
	require.NotNil(t, np.Alias)
	assert.Equal(t, "np", *np.Alias)
	assert.Equal(t, 2, np.Line)

	assert.Equal(t, "os.path", facts.imports[2].Module)

	pathlib := facts.imports[3]
	assert.True(t, pathlib.IsFromImport)
	assert.Equal(t, "pathlib", pathlib.Module)
	assert.Equal(t, []string{"Path", "PurePath"}, pathlib.Names)
	assert.Nil(t, pathlib.Alias)

	assert.Equal(t, []string{"OrderedDict"}, facts.imports[4].Names)

	// Bare relative import records an empty module path.
	bare := facts.imports[5]
	assert.True(t, bare.IsFromImport)
	assert.Equal(t, "", bare.Module)
	assert.Equal(t, []string{"sibling"}, bare.Names)

	rel := facts.imports[6]
	assert.Equal(t, ".util", rel.Module)
	assert.Equal(t, []string{"helper"}, rel.Names)
}

func TestAnalyzeSyntax_NestedFunctions(t *testing.T) {
	t.Parallel()

	source := []byte(`def outer():
    def inner():
        pass
    return inner
`)

	facts, errRec := analyzeSyntax(source)
	require.Nil(t, errRec)
	require.Len(t, facts.functions, 2)
	assert.Equal(t, "outer", facts.functions[0].Name)
	assert.Equal(t, "inner", facts.functions[1].Name)
	assert.Equal(t, 2, facts.functions[1].Line)
}
