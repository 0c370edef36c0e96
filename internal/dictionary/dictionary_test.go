package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hr-screening/internal/types"
)

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "PostgreSQL", "postgresql"},
		{"keeps plus and hash", "C++ / C#", "c++ / c#"},
		{"keeps dot", ".NET", ".net"},
		{"collapses whitespace", "  machine   learning\t", "machine learning"},
		{"strips punctuation", "go, (golang)!", "go golang"},
		{"empty after stripping", "???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeToken(tt.input))
		})
	}
}

func testSnapshot() *Snapshot {
	return NewSnapshot(7,
		[]string{"Go", "PostgreSQL", "Kubernetes"},
		[]string{"Communication", "Leadership"},
		[]types.SynonymRule{
			{Token: "golang", CanonicalForm: "go"},
			{Token: "k8s", CanonicalForm: "kubernetes"},
			{Token: "postgres", CanonicalForm: "postgresql"},
		},
	)
}

func TestCanonicalize_ExactMatch(t *testing.T) {
	snap := testSnapshot()

	canonical, ok := snap.Canonicalize("Go", KindHard)
	assert.True(t, ok)
	assert.Equal(t, "go", canonical)

	canonical, ok = snap.Canonicalize("  COMMUNICATION ", KindSoft)
	assert.True(t, ok)
	assert.Equal(t, "communication", canonical)
}

func TestCanonicalize_SynonymHop(t *testing.T) {
	snap := testSnapshot()

	canonical, ok := snap.Canonicalize("GoLang", KindHard)
	assert.True(t, ok)
	assert.Equal(t, "go", canonical)

	canonical, ok = snap.Canonicalize("k8s", KindHard)
	assert.True(t, ok)
	assert.Equal(t, "kubernetes", canonical)
}

func TestCanonicalize_FailsClosed(t *testing.T) {
	snap := testSnapshot()

	_, ok := snap.Canonicalize("rust", KindHard)
	assert.False(t, ok)

	// A synonym target that is not in the dictionary also fails.
	snap = NewSnapshot(1, []string{"go"}, nil, []types.SynonymRule{
		{Token: "gopher", CanonicalForm: "rust"},
	})
	_, ok = snap.Canonicalize("gopher", KindHard)
	assert.False(t, ok)
}

func TestCanonicalize_KindsArePartitioned(t *testing.T) {
	snap := testSnapshot()

	_, ok := snap.Canonicalize("communication", KindHard)
	assert.False(t, ok, "soft term must not resolve in the hard dictionary")

	_, ok = snap.Canonicalize("go", KindSoft)
	assert.False(t, ok)
}

func TestCanonicalize_SingleHopOnly(t *testing.T) {
	// Rule graph a->b, b->c with only c in the dictionary: resolving "a"
	// expands exactly once to "b", which is not a dictionary term, so it
	// fails. Chained expansion would have reached "c".
	snap := NewSnapshot(1, []string{"c"}, nil, []types.SynonymRule{
		{Token: "a", CanonicalForm: "b"},
		{Token: "b", CanonicalForm: "c"},
	})

	_, ok := snap.Canonicalize("a", KindHard)
	assert.False(t, ok)

	// "b" itself hops once to "c" and resolves.
	canonical, ok := snap.Canonicalize("b", KindHard)
	assert.True(t, ok)
	assert.Equal(t, "c", canonical)
}

func TestExpand(t *testing.T) {
	snap := testSnapshot()

	assert.Equal(t, "kubernetes", snap.Expand("K8s"))
	assert.Equal(t, "terraform", snap.Expand("Terraform"), "unknown terms normalize to themselves")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, int64(7), testSnapshot().Version())
}
