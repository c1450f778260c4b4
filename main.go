// Pipegen generates a Buildkite pipeline for a monorepo from per-project
// manifests, selecting the stages relevant to the current pull request.
package main

import (
	"github.com/opnlabs/pipegen/cmd/pipegen"
)

func main() {
	pipegen.Execute()
}
