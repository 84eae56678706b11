package semver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Version
	}{
		{name: "plain triple", input: "16.14.0", want: Version{16, 14, 0}},
		{name: "node style prefix", input: "v18.2.1", want: Version{18, 2, 1}},
		{name: "trailing newline", input: "1.22.19\n", want: Version{1, 22, 19}},
		{name: "prerelease suffix ignored", input: "2.0.0-rc.3", want: Version{2, 0, 0}},
		{name: "multi digit", input: "1.10.10", want: Version{1, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{"", "sixteen", "16.14", "node 16.14.0", "v", "1..2"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedVersion))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("1.2.3") })
}

func TestVersion_Semver(t *testing.T) {
	gv, err := MustParse("v16.14.2").Semver()

	require.NoError(t, err)
	assert.Equal(t, "16.14.2", gv.String())
	assert.Equal(t, []int{16, 14, 2}, gv.Segments())
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10.1", "1.10.1", 0},
		{"1.10.0", "1.10.1", -1},
		{"1.11.0", "1.10.9", 1},
		{"2.0.0", "1.99.99", 1},
		{"16.13.9", "16.14.0", -1},
		{"1.9.0", "1.10.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.a).Compare(MustParse(tt.b)))
		})
	}
}

func TestRange_Contains(t *testing.T) {
	// Given: the yarn classic range
	r := Range{Min: MustParse("1.10.1"), Max: MustParse("2.0.0")}

	// Then: boundaries are half-open
	assert.False(t, r.Contains(MustParse("1.10.0")))
	assert.True(t, r.Contains(MustParse("1.10.1")))
	assert.True(t, r.Contains(MustParse("1.99.9")))
	assert.False(t, r.Contains(MustParse("2.0.0")))
	assert.False(t, r.Contains(MustParse("0.27.5")))
}

func TestRange_UnboundedMax(t *testing.T) {
	r := Range{Min: MustParse("16.14.0")}

	assert.True(t, r.Contains(MustParse("99.0.0")))
	assert.False(t, r.Contains(MustParse("16.13.2")))
	assert.Equal(t, ">= 16.14.0", r.String())
}

func TestRange_Constraints(t *testing.T) {
	tests := []struct {
		name  string
		r     Range
		want  string
		check string
		ok    bool
	}{
		{
			name:  "yarn classic",
			r:     Range{Min: MustParse("1.10.1"), Max: MustParse("2.0.0")},
			want:  ">= 1.10.1, < 2.0.0",
			check: "1.22.19",
			ok:    true,
		},
		{
			name:  "node floor",
			r:     Range{Min: MustParse("16.14.0")},
			want:  ">= 16.14.0",
			check: "16.13.2",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.r.Constraints()
			require.NoError(t, err)
			assert.NotEmpty(t, c)
			assert.Equal(t, tt.want, tt.r.String())

			got, err := tt.r.Check(MustParse(tt.check))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, got)
		})
	}
}

func TestRange_CheckRejectsNegativeBounds(t *testing.T) {
	r := Range{Min: Version{Major: -1}}

	_, err := r.Check(MustParse("1.0.0"))

	require.Error(t, err)
	assert.False(t, r.Contains(MustParse("1.0.0")))
}
