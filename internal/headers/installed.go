package headers

import (
	"encoding/json"
	"sort"
	"strings"
)

// infoPrefix marks node-gyp's own log lines in `node-gyp list` output.
const infoPrefix = "gyp info"

// VersionSet holds header versions already present in node-gyp's cache.
type VersionSet map[string]struct{}

// Has reports whether version is installed.
func (s VersionSet) Has(version string) bool {
	_, ok := s[version]
	return ok
}

// Sorted returns the versions in lexical order.
func (s VersionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted list.
func (s VersionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// ParseInstalled turns `node-gyp list` output into a VersionSet. Log lines
// and blank lines are skipped.
func ParseInstalled(output string) VersionSet {
	set := VersionSet{}
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, infoPrefix) {
			continue
		}
		v := strings.TrimSpace(line)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
