package android

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/perfpack/perfpack/internal/shell"
)

// packageUIDRegexp matches one entry of `pm list packages -U` output, e.g.
// "package:com.example.app uid:10089".
var packageUIDRegexp = regexp.MustCompile(`package:([\w.]+)\s+uid:(\d+)`)

// AppUID resolves an installed package name to its numeric uid by listing
// installed packages through the package manager. Matching is exact and the
// first match wins; entries with an unparsable uid are skipped.
func AppUID(runner shell.Runner, pkg string) (uint32, error) {
	out, err := runner.Output("pm", "list", "packages", "-U")
	if err != nil {
		return 0, fmt.Errorf("failed to run `pm list packages -U`: %w", err)
	}
	for _, m := range packageUIDRegexp.FindAllStringSubmatch(out, -1) {
		uid, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			continue
		}
		if m[1] == pkg {
			return uint32(uid), nil
		}
	}
	return 0, fmt.Errorf("failed to find package %s", pkg)
}
