package golang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSource = `package sample

type Server struct {
	name string
}

func (s *Server) Greet() string {
	return helper(s.name)
}

func helper(name string) string {
	return "hello " + name
}

var defaultName = "world"
`

func TestParseDeclarationsExtractsFunctionsMethodsAndTypes(t *testing.T) {
	adapter, err := New()
	require.NoError(t, err)

	read := func() (string, error) { return sampleSource, nil }
	decls, err := adapter.ParseDeclarations([]byte(sampleSource), "sample.go", read)
	require.NoError(t, err)

	require.Contains(t, decls, "Server")
	require.Contains(t, decls, "Server::Greet")
	require.Contains(t, decls, "helper")
	require.Contains(t, decls, "defaultName")

	method := decls["Server::Greet"]
	require.Equal(t, "Greet", method.Name)
}

func TestParseUsagesFindsCallExpressions(t *testing.T) {
	adapter, err := New()
	require.NoError(t, err)

	usages, err := adapter.ParseUsages([]byte(sampleSource))
	require.NoError(t, err)

	names := make([]string, 0, len(usages))
	for _, u := range usages {
		names = append(names, u.ReferencedName)
	}
	require.Contains(t, names, "helper")
}

func TestDeclarationContentIsExtractedByByteRange(t *testing.T) {
	adapter, err := New()
	require.NoError(t, err)

	read := func() (string, error) { return sampleSource, nil }
	decls, err := adapter.ParseDeclarations([]byte(sampleSource), "sample.go", read)
	require.NoError(t, err)

	content, err := decls["helper"].Content()
	require.NoError(t, err)
	require.Contains(t, content, "func helper")
}

func TestLanguageName(t *testing.T) {
	adapter, err := New()
	require.NoError(t, err)
	require.Equal(t, "go", adapter.Language())
}
