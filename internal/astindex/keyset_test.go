package astindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildKeysetDedupesAndSorts(t *testing.T) {
	ks, err := buildKeyset([]string{"beta", "alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, ks.paths())
}

func TestBuildKeysetEmpty(t *testing.T) {
	ks, err := buildKeyset(nil)
	require.NoError(t, err)
	require.Empty(t, ks.paths())
}

func TestKeysetSearchCaseInsensitive(t *testing.T) {
	ks, err := buildKeyset([]string{"ParseRequest", "parseResponse", "unrelated"})
	require.NoError(t, err)

	matches, err := ks.search("parse.*")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ParseRequest", "parseResponse"}, matches)
}

func TestKeysetSearchNoMatches(t *testing.T) {
	ks, err := buildKeyset([]string{"alpha", "beta"})
	require.NoError(t, err)

	matches, err := ks.search("zzz")
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestNilKeysetIsSafe(t *testing.T) {
	var ks *keyset
	require.Empty(t, ks.paths())
	matches, err := ks.search("anything")
	require.NoError(t, err)
	require.Nil(t, matches)
}
