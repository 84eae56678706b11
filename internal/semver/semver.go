// Package semver parses the major.minor.patch triples reported by node and
// yarn and checks them against accepted ranges with hashicorp/go-version.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// ErrMalformedVersion is returned when a string does not start with a
// major.minor.patch triple.
var ErrMalformedVersion = errors.New("malformed version")

var tripleRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)

// Version is a parsed major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse extracts the leading triple from s. Surrounding whitespace and a
// single leading "v" (as printed by `node --version`) are ignored; anything
// after the patch number (pre-release tags, build metadata) is discarded.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "v")

	m := tripleRegex.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformedVersion, s, err)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// MustParse is Parse for constants; it panics on malformed input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the triple as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is 0.0.0.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Semver returns v as a go-version value. Pre-release and metadata were
// dropped by Parse, so only the triple takes part in comparisons.
func (v Version) Semver() (*goversion.Version, error) {
	gv, err := goversion.NewVersion(v.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedVersion, v, err)
	}
	return gv, nil
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after other.
// Both triples must be non-negative, which Parse guarantees.
func (v Version) Compare(other Version) int {
	a := goversion.Must(v.Semver())
	b := goversion.Must(other.Semver())
	return a.Compare(b)
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Range is a half-open version interval [Min, Max). A zero Max leaves the
// range unbounded above.
type Range struct {
	Min Version
	Max Version
}

// String renders the range in go-version constraint syntax, e.g.
// ">= 1.10.1, < 2.0.0".
func (r Range) String() string {
	if r.Max.IsZero() {
		return ">= " + r.Min.String()
	}
	return fmt.Sprintf(">= %s, < %s", r.Min, r.Max)
}

// Constraints compiles the range into go-version constraints.
func (r Range) Constraints() (goversion.Constraints, error) {
	c, err := goversion.NewConstraint(r.String())
	if err != nil {
		return nil, fmt.Errorf("invalid version range %q: %w", r.String(), err)
	}
	return c, nil
}

// Check reports whether v satisfies the range. It fails only when the
// range or v cannot be expressed as go-version values.
func (r Range) Check(v Version) (bool, error) {
	c, err := r.Constraints()
	if err != nil {
		return false, err
	}
	gv, err := v.Semver()
	if err != nil {
		return false, err
	}
	return c.Check(gv), nil
}

// Contains reports whether v lies inside the range. A range that cannot be
// compiled contains nothing.
func (r Range) Contains(v Version) bool {
	ok, err := r.Check(v)
	return err == nil && ok
}
