package changeset

import (
	"testing"

	"github.com/opnlabs/pipegen/pkg/store"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		Name     string
		Files    []string
		Patterns []string
		Expected bool
	}{
		{
			Name:     "direct child matches",
			Files:    []string{"filebeat/main.go"},
			Patterns: []string{"filebeat/*"},
			Expected: true,
		},
		{
			Name:     "other project does not match",
			Files:    []string{"x/main.go"},
			Patterns: []string{"filebeat/*"},
			Expected: false,
		},
		{
			Name:     "star crosses path separators",
			Files:    []string{"filebeat/input/tcp/input.go"},
			Patterns: []string{"filebeat/*"},
			Expected: true,
		},
		{
			Name:     "second pattern matches",
			Files:    []string{"libbeat/common/common.go"},
			Patterns: []string{"filebeat/*", "libbeat/*"},
			Expected: true,
		},
		{
			Name:     "no files never matches",
			Files:    []string{},
			Patterns: []string{"filebeat/*"},
			Expected: false,
		},
		{
			Name:     "no patterns never matches",
			Files:    []string{"filebeat/main.go"},
			Patterns: []string{},
			Expected: false,
		},
		{
			Name:     "invalid pattern matches nothing",
			Files:    []string{"filebeat/main.go"},
			Patterns: []string{"filebeat/["},
			Expected: false,
		},
	}

	for _, test := range tests {
		if Match(test.Files, test.Patterns) != test.Expected {
			t.Errorf("Test - %s: expected %v", test.Name, test.Expected)
		}
	}
}

func TestChangesetUsesCachedResult(t *testing.T) {
	cache := store.NewMemStore()
	if err := cache.Set(changesetKey, []string{"filebeat/main.go"}); err != nil {
		t.Fatal(err)
	}

	resolver := NewResolver("main", cache, nil)
	files := resolver.Changeset()
	if len(files) != 1 || files[0] != "filebeat/main.go" {
		t.Errorf("expected the cached changeset, got %v", files)
	}
}

func TestFailedDiffYieldsEmptyChangeset(t *testing.T) {
	// With no base branch the revision range degenerates to HEAD...HEAD,
	// so the diff yields nothing whether or not the command succeeds.
	resolver := NewResolver("", store.NewMemStore(), nil)

	if files := resolver.Changeset(); len(files) != 0 {
		t.Errorf("expected an empty changeset, got %v", files)
	}
	if resolver.Matches([]string{"*"}) {
		t.Error("an empty changeset must not match")
	}
}
