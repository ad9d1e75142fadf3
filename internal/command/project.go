// Where: internal/command/project.go
// What: Resolve the environment and project config for a command.
// Why: Every command reads multipub.yaml the same way.
package command

import (
	"fmt"
	"strings"

	"github.com/poruru/multipub/internal/infra/config"
)

type projectInputs struct {
	Env     config.Env
	Project config.Project
	Path    string
}

// resolveProject reads the environment, then loads the config named by
// --config, MULTIPUB_CONFIG or the working directory, in that order.
func resolveProject(cli CLI, deps Dependencies) (projectInputs, error) {
	env, err := config.ParseEnv()
	if err != nil {
		return projectInputs{}, err
	}
	dir, err := deps.Getwd()
	if err != nil {
		return projectInputs{}, fmt.Errorf("resolve working directory: %w", err)
	}
	explicit := strings.TrimSpace(cli.Config)
	if explicit == "" {
		explicit = env.ConfigPath
	}
	path, err := config.ProjectConfigPath(explicit, dir)
	if err != nil {
		return projectInputs{}, err
	}
	project, err := config.LoadProject(path)
	if err != nil {
		return projectInputs{}, fmt.Errorf("%s: %w", path, err)
	}
	return projectInputs{Env: env, Project: project, Path: path}, nil
}

// buildDirFor picks the flag value, then MULTIPUB_BUILD_DIR, then the config.
func buildDirFor(flag string, env config.Env) string {
	if dir := strings.TrimSpace(flag); dir != "" {
		return dir
	}
	return strings.TrimSpace(env.BuildDir)
}
