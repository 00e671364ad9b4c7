package surface

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backendFiles = []string{
	"recorder.go",
	"raster/raster.go",
	"svg/svg.go",
}

func TestBackendSourcesAreFormatted(t *testing.T) {
	for _, path := range backendFiles {
		src, err := os.ReadFile(path)
		require.NoError(t, err)
		formatted, err := format.Source(src)
		require.NoError(t, err)
		assert.Equal(t, string(formatted), string(src), "%s is not gofmt-formatted", path)
	}
}

func TestBackendMethodsAreDocumented(t *testing.T) {
	fset := token.NewFileSet()
	for _, path := range backendFiles {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		require.NoError(t, err)
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !fn.Name.IsExported() {
				continue
			}
			assert.NotNil(t, fn.Doc, "%s: %s has no doc comment", path, fn.Name.Name)
		}
	}
}
