package models

// RootManifest lists the sub-projects that may contribute stages to the
// merged pipeline. It lives at .buildkite/buildkite.yml in the repository
// root.
type RootManifest struct {
	Projects []string `yaml:"projects" validate:"required"`
}

// ProjectManifest describes one project's stages and the changeset globs
// that make the project relevant to a pull request. It lives at
// {project}/buildkite.yml.
type ProjectManifest struct {
	Stages Stages `yaml:"stages" validate:"required"`
	When   When   `yaml:"when" validate:"required"`
}

type Stages struct {
	Mandatory map[string]Stage `yaml:"mandatory" validate:"required,dive"`
	Extended  map[string]Stage `yaml:"extended" validate:"required,dive"`
}

type Stage struct {
	Command  string `yaml:"command" validate:"required"`
	Provider string `yaml:"provider"`
	Platform string `yaml:"platform" validate:"required"`
}

type When struct {
	Changeset []string `yaml:"changeset" validate:"required"`
}
