// internal/cliutil/cliutil.go
package cliutil

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPaths expands any globs among path-like arguments, so table lists can
// be given as e.g. 'annotations/*.tsv' without relying on the shell. "-" is
// passed through for stdin.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if a == "-" || !hasGlobMeta(a) {
			out = append(out, a)
			continue
		}
		m, err := filepath.Glob(a)
		if err != nil {
			return nil, errors.Errorf("bad glob %q: %v", a, err)
		}
		if len(m) == 0 {
			return nil, errors.Errorf("no input matched %q", a)
		}
		out = append(out, m...)
	}
	return out, nil
}
