// Package selection decides which steps and groups of a pipeline are
// included in a given build context.
package selection

import (
	"os"
	"strings"

	"github.com/opnlabs/pipegen/pkg/changeset"
	"github.com/opnlabs/pipegen/pkg/pipeline"
)

const commentPrefix = "buildkite test"

// Signals are the pull-request facts a run is selected against. They are
// read once at startup and fixed for the whole run.
type Signals struct {
	IsPR           bool
	TriggerComment string
	Labels         []string
}

// FromEnv reads the signals from the Buildkite / GitHub environment.
// Anything but an explicit "false" pull-request marker counts as a PR.
func FromEnv() Signals {
	return Signals{
		IsPR:           os.Getenv("BUILDKITE_PULL_REQUEST") != "false",
		TriggerComment: os.Getenv("GITHUB_PR_TRIGGER_COMMENT"),
		Labels:         strings.Fields(os.Getenv("GITHUB_PR_LABELS")),
	}
}

// Engine applies the selection rules for one run.
type Engine struct {
	signals  Signals
	resolver *changeset.Resolver
}

func NewEngine(signals Signals, resolver *changeset.Resolver) *Engine {
	return &Engine{signals: signals, resolver: resolver}
}

// StepEnabled reports whether a step belongs in the pipeline. Outside a
// PR every step runs. Inside a PR a trigger comment, when present, is the
// only signal consulted: a comment that matches neither the step form
// ("buildkite test {project} {name}") nor, for mandatory steps, the exact
// project form ("buildkite test {project}") disables the step even if a
// matching label exists. Labels ("{project}-{name}") apply only when no
// comment was made. No comment and no labels fails closed.
func (e *Engine) StepEnabled(step pipeline.Step) bool {
	if !e.signals.IsPR {
		return true
	}

	if comment := e.signals.TriggerComment; comment != "" {
		if strings.Contains(comment, commentPrefix+" "+step.Project+" "+step.Name) {
			return true
		}
		return step.Category == pipeline.CategoryMandatory &&
			comment == commentPrefix+" "+step.Project
	}

	for _, label := range e.signals.Labels {
		if label == step.Project+"-"+step.Name {
			return true
		}
	}
	return false
}

// GroupEnabled reports whether a group belongs in the pipeline. Outside a
// PR every group runs. A changeset hit on the project's patterns enables
// mandatory groups directly; otherwise the trigger comment decides:
// mandatory groups need the exact project form, other groups need the
// comment to contain "buildkite test {project} {category}". Without a
// comment the fallback disables the group.
func (e *Engine) GroupEnabled(group pipeline.Group, patterns []string) bool {
	if !e.signals.IsPR {
		return true
	}

	if e.resolver.Matches(patterns) && strings.HasPrefix(group.Category, pipeline.CategoryMandatory) {
		return true
	}

	comment := e.signals.TriggerComment
	if comment == "" {
		return false
	}
	if group.Category == pipeline.CategoryMandatory {
		return comment == commentPrefix+" "+group.Project
	}
	return strings.Contains(comment, commentPrefix+" "+group.Project+" "+group.Category)
}
