package android

import (
	"strconv"
	"strings"
)

// Version returns the Android release version as an integer, or 0 when it
// cannot be determined. In-development builds report a codename instead of a
// release number; single-letter codenames are mapped relative to P (9).
func (p *Props) Version() int {
	codename, err := p.Get("ro.build.version.codename")
	if err == nil && codename != "" && codename != "REL" {
		if len(codename) == 1 && codename[0] >= 'P' && codename[0] <= 'Z' {
			return int(codename[0]-'P') + 9
		}
		return 0
	}

	release, err := p.Get("ro.build.version.release")
	if err != nil || release == "" {
		return 0
	}
	// Only the major version matters; releases look like "13" or "4.4.4".
	major, _, _ := strings.Cut(release, ".")
	version, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return version
}
