// Package changeset resolves the set of files a pull request changes and
// answers glob queries against it.
package changeset

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/gobwas/glob"
	"github.com/opnlabs/pipegen/pkg/store"
)

const changesetKey = "changeset"

// Resolver computes the changed-file set between the PR base branch and
// HEAD. The diff runs at most once per run; the result is memoized in the
// store the resolver owns.
type Resolver struct {
	baseBranch string
	cache      store.Store
	log        io.Writer
}

func NewResolver(baseBranch string, cache store.Store, log io.Writer) *Resolver {
	if log == nil {
		log = io.Discard
	}
	return &Resolver{
		baseBranch: baseBranch,
		cache:      cache,
		log:        log,
	}
}

// Changeset returns the changed file paths. A failed diff or an unset
// base branch yields an empty set, which callers treat as "no match".
func (r *Resolver) Changeset() []string {
	if cached, err := r.cache.Get(changesetKey); err == nil {
		return cached.([]string)
	}

	files := r.diff()
	r.cache.Set(changesetKey, files)
	fmt.Fprintf(r.log, "changed files: %v\n", files)
	return files
}

func (r *Resolver) diff() []string {
	out, err := exec.Command("git", "diff", "--name-only", r.baseBranch+"...HEAD").Output()
	if err != nil {
		fmt.Fprintf(r.log, "could not diff against %s: %v\n", r.baseBranch, err)
		return nil
	}

	files := make([]string, 0)
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}

// Matches reports whether any changed file matches any of the patterns.
// Patterns are shell-style globs where * also crosses path separators;
// extended forms like anchors are not supported. A pattern that fails to
// compile matches nothing.
func (r *Resolver) Matches(patterns []string) bool {
	return Match(r.Changeset(), patterns)
}

func Match(files, patterns []string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		for _, file := range files {
			if g.Match(file) {
				return true
			}
		}
	}
	return false
}
