package astindex

import (
	"bytes"
	"errors"
	"sort"

	"github.com/blevesearch/vellum"
	vregexp "github.com/blevesearch/vellum/regexp"
)

// keyset is the compiled, immutable per-file finite-state set described in
// spec.md §3: symbol paths sorted in lexicographic byte order, compiled
// into a vellum FST so a query can be run as a regex automaton directly
// against it. Replacement means building a new keyset and swapping the
// pointer; a keyset is never mutated after buildKeyset returns.
type keyset struct {
	fst  *vellum.FST
	keys []string
}

// buildKeyset compiles keys (not necessarily sorted or unique) into a
// keyset. vellum requires strictly increasing insertion order, so keys are
// sorted and deduplicated first.
func buildKeyset(keys []string) (*keyset, error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	deduped := sorted[:0]
	for i, k := range sorted {
		if i == 0 || k != deduped[len(deduped)-1] {
			deduped = append(deduped, k)
		}
	}

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}
	for i, k := range deduped {
		if err := builder.Insert([]byte(k), uint64(i)); err != nil {
			return nil, err
		}
	}
	if err := builder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return &keyset{fst: fst, keys: deduped}, nil
}

// search runs pattern as a case-insensitive regex automaton over the
// keyset and returns every key that contains a match of pattern anywhere in
// it, in no particular order. The query is treated as user-supplied regex,
// not a literal, matching spec.md §4.4's "regex-as-query" design. vellum
// automata match whole keys, so pattern is wrapped in ".*" on both sides.
func (ks *keyset) search(pattern string) ([]string, error) {
	if ks == nil {
		return nil, nil
	}
	aut, err := vregexp.New("(?i).*(?:" + pattern + ").*")
	if err != nil {
		return nil, err
	}
	itr, err := ks.fst.Search(aut, nil, nil)
	var matches []string
	for err == nil {
		key, _ := itr.Current()
		matches = append(matches, string(key))
		err = itr.Next()
	}
	if err != nil && !errors.Is(err, vellum.ErrIteratorDone) {
		return nil, err
	}
	return matches, nil
}

// paths returns every key in the set, used by remove and symbols_by_file.
func (ks *keyset) paths() []string {
	if ks == nil {
		return nil
	}
	return ks.keys
}
