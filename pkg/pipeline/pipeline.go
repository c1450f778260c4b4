// Package pipeline holds the typed objects that make up a generated
// Buildkite pipeline and their rendering into the plain mappings the
// pipeline upload API accepts.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/gosimple/slug"
)

const (
	CategoryMandatory = "mandatory"
	CategoryExtended  = "extended"
)

type Provider string

const (
	ProviderGCP  Provider = "gcp"
	ProviderAWS  Provider = "aws"
	ProviderOrka Provider = "orka"
)

// Agent describes the execution environment a step runs on. Image is the
// provider-specific platform identifier.
type Agent struct {
	Provider Provider
	Image    string
}

// NewAgent builds an Agent from the manifest's provider and platform
// fields. An empty provider defaults to GCP. An unknown provider is an
// error so a typo fails the run instead of emitting a step with no agents
// block.
func NewAgent(provider, platform string) (Agent, error) {
	switch Provider(provider) {
	case "", ProviderGCP:
		return Agent{Provider: ProviderGCP, Image: platform}, nil
	case ProviderAWS:
		return Agent{Provider: ProviderAWS, Image: platform}, nil
	case ProviderOrka:
		return Agent{Provider: ProviderOrka, Image: platform}, nil
	}
	return Agent{}, fmt.Errorf("unknown provider %q", provider)
}

func (a Agent) Entity() map[string]any {
	switch a.Provider {
	case ProviderAWS:
		return map[string]any{
			"provider":     "aws",
			"imagePrefix":  a.Image,
			"instanceType": "t4g.large",
		}
	case ProviderOrka:
		return map[string]any{
			"provider":    "orka",
			"imagePrefix": a.Image,
		}
	default:
		return map[string]any{
			"provider": "gcp",
			"image":    a.Image,
		}
	}
}

// Step is one executable unit of a group. Label and Comment are derived
// from the identity fields at construction and fixed afterwards.
type Step struct {
	Command  string
	Agent    Agent
	Name     string
	Project  string
	Category string
	Label    string
	Comment  string
}

func NewStep(name, project, category, command string, agent Agent) Step {
	return Step{
		Command:  command,
		Agent:    agent,
		Name:     name,
		Project:  project,
		Category: category,
		Label:    name,
		Comment:  "/test " + project + " " + name,
	}
}

func (s Step) Entity() map[string]any {
	return map[string]any{
		"label":   s.Project + " " + s.Name,
		"command": []string{s.Command},
		"notify": []map[string]any{
			{
				"github_commit_status": map[string]string{
					"context": s.Project + ": " + s.Name,
				},
			},
		},
		"agents": s.Agent.Entity(),
	}
}

// Group bundles the steps of one project/category pair. Steps are owned
// exclusively by their group and share its project and category.
type Group struct {
	Project  string
	Category string
	Steps    []Step
}

// Entity renders the group, with steps sorted by name. A group whose
// steps were all filtered out renders to nil and is dropped from the
// pipeline.
func (g Group) Entity() map[string]any {
	if len(g.Steps) == 0 {
		return nil
	}

	steps := make([]Step, len(g.Steps))
	copy(steps, g.Steps)
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Name < steps[j].Name
	})

	entities := make([]map[string]any, 0, len(steps))
	for _, step := range steps {
		entities = append(entities, step.Entity())
	}

	return map[string]any{
		"group": g.Project + " " + g.Category,
		"key":   slug.Make(g.Project + "-" + g.Category),
		"steps": entities,
	}
}

// Pipeline is the ordered list of groups that survived selection.
type Pipeline struct {
	Groups []Group
}

func (p Pipeline) Entity() map[string]any {
	groups := make([]map[string]any, 0, len(p.Groups))
	for _, group := range p.Groups {
		if entity := group.Entity(); entity != nil {
			groups = append(groups, entity)
		}
	}
	return map[string]any{"steps": groups}
}
