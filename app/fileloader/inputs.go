package fileloader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/chrispappas/golang-generics-set/set"

	"circlesgraph/app/diagnostics"
)

// IsRemote reports whether ref names a URL-style source rather than a local file.
func IsRemote(ref string) bool {
	return strings.Contains(ref, "://")
}

func hasGlobMeta(ref string) bool {
	return strings.ContainsAny(ref, "*?[{")
}

// ExpandInputs turns command line arguments into source references. Glob
// patterns, including "**", are expanded in sorted order; local paths are
// cleaned; repeated references keep their first position. Patterns without a
// match are returned as warnings.
func ExpandInputs(args []string) ([]string, []error) {
	var refs []string
	var warnings []error
	seen := set.FromSlice([]string{})

	add := func(ref string) {
		if seen.Has(ref) {
			return
		}
		seen.Add(ref)
		refs = append(refs, ref)
	}

	for _, arg := range args {
		switch {
		case IsRemote(arg):
			add(arg)
		case hasGlobMeta(arg):
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				warnings = append(warnings, &diagnostics.SourceError{Source: arg, Err: fmt.Errorf("bad pattern: %w", err)})
				continue
			}
			if len(matches) == 0 {
				warnings = append(warnings, &diagnostics.SourceError{Source: arg, Err: fmt.Errorf("pattern matched no files")})
				continue
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(filepath.Clean(m))
			}
		default:
			add(filepath.Clean(arg))
		}
	}
	return refs, warnings
}
