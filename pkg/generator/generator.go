// Package generator assembles the merged pipeline: it walks the projects
// declared in the root manifest, builds their groups, filters them with
// the selection rules and renders the result as YAML.
package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/opnlabs/pipegen/pkg/models"
	"github.com/opnlabs/pipegen/pkg/pipeline"
	"github.com/opnlabs/pipegen/pkg/selection"
	"gopkg.in/yaml.v3"
)

const projectManifestName = "buildkite.yml"

type Options struct {
	// Dir is the repository root project manifests are resolved against.
	Dir string
	// RootManifest is the path to the manifest listing the projects.
	RootManifest string
	// Out receives the rendered pipeline document.
	Out io.Writer
	// Log receives diagnostics. Defaults to io.Discard.
	Log io.Writer
}

type Generator struct {
	opts     Options
	engine   *selection.Engine
	validate *validator.Validate
}

func New(engine *selection.Engine, opts Options) *Generator {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return &Generator{
		opts:     opts,
		engine:   engine,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Run produces one pipeline document on Out. A project declared in the
// root manifest without a manifest file of its own is skipped; any other
// manifest problem aborts the run before anything is written.
func (g *Generator) Run() error {
	root, err := g.loadRootManifest()
	if err != nil {
		return err
	}

	groups := make([]pipeline.Group, 0)
	extendedGroups := make([]pipeline.Group, 0)

	for _, project := range root.Projects {
		manifestPath := filepath.Join(g.opts.Dir, project, projectManifestName)
		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			fmt.Fprintf(g.opts.Log, "skipping %s: no %s\n", project, projectManifestName)
			continue
		}

		manifest, err := g.loadProjectManifest(manifestPath)
		if err != nil {
			return err
		}

		group, err := g.buildGroup(project, pipeline.CategoryMandatory, manifest.Stages.Mandatory)
		if err != nil {
			return err
		}
		if g.engine.GroupEnabled(group, manifest.When.Changeset) {
			groups = append(groups, group)
		}

		group, err = g.buildGroup(project, pipeline.CategoryExtended, manifest.Stages.Extended)
		if err != nil {
			return err
		}
		if g.engine.GroupEnabled(group, manifest.When.Changeset) {
			extendedGroups = append(extendedGroups, group)
		}
	}

	sortGroups(groups)
	sortGroups(extendedGroups)

	doc := pipeline.Pipeline{Groups: append(groups, extendedGroups...)}.Entity()
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not render pipeline: %v", err)
	}
	if _, err := g.opts.Out.Write(out); err != nil {
		return fmt.Errorf("could not write pipeline: %v", err)
	}
	return nil
}

func (g *Generator) loadRootManifest() (models.RootManifest, error) {
	var root models.RootManifest

	contents, err := os.ReadFile(filepath.Clean(g.opts.RootManifest))
	if err != nil {
		return root, fmt.Errorf("could not read root manifest: %v", err)
	}
	if err := yaml.Unmarshal(contents, &root); err != nil {
		return root, fmt.Errorf("could not parse root manifest %s: %v", g.opts.RootManifest, err)
	}
	if err := g.validate.Struct(root); err != nil {
		return root, fmt.Errorf("invalid root manifest %s: %v", g.opts.RootManifest, err)
	}
	return root, nil
}

func (g *Generator) loadProjectManifest(path string) (models.ProjectManifest, error) {
	var manifest models.ProjectManifest

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return manifest, fmt.Errorf("could not read project manifest %s: %v", path, err)
	}
	if err := yaml.Unmarshal(contents, &manifest); err != nil {
		return manifest, fmt.Errorf("could not parse project manifest %s: %v", path, err)
	}
	if err := g.validate.Struct(manifest); err != nil {
		return manifest, fmt.Errorf("invalid project manifest %s: %v", path, err)
	}
	return manifest, nil
}

// buildGroup turns one stage block into a group, dropping steps the
// selection rules disable. Step order does not matter here; rendering
// sorts by stage name.
func (g *Generator) buildGroup(project, category string, stages map[string]models.Stage) (pipeline.Group, error) {
	steps := make([]pipeline.Step, 0, len(stages))
	for name, stage := range stages {
		agent, err := pipeline.NewAgent(stage.Provider, stage.Platform)
		if err != nil {
			return pipeline.Group{}, fmt.Errorf("stage %s of %s: %v", name, project, err)
		}

		step := pipeline.NewStep(name, project, category, stage.Command, agent)
		if g.engine.StepEnabled(step) {
			steps = append(steps, step)
		}
	}

	return pipeline.Group{
		Project:  project,
		Category: category,
		Steps:    steps,
	}, nil
}

// sortGroups orders by project name only. The sort is stable so groups of
// the same project keep their discovery order.
func sortGroups(groups []pipeline.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Project < groups[j].Project
	})
}
