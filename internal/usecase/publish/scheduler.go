// Where: internal/usecase/publish/scheduler.go
// What: Register generate and publish tasks with ordering and gating edges.
// Why: A bridge publish runs after its variants and only when they are present in the target.
package publish

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/infra/taskgraph"
	"github.com/poruru/multipub/internal/infra/ui"
)

// PublishTask links a publish task name to what it publishes.
type PublishTask struct {
	Name        string
	Component   string
	Publication string
	Coordinate  string
	Repository  string
	Bridge      bool
}

// Scheduler registers tasks for components into a task graph.
type Scheduler struct {
	Graph       *taskgraph.Graph
	Stitcher    *Stitcher
	UI          ui.UserInterface
	BuildDir    string
	ToolVersion string
	// ResolvePath turns config-relative artifact paths absolute.
	ResolvePath func(string) string
}

// Schedule registers generate tasks for every publication and publish tasks
// for every (publication, repository) pair whose layout matches the
// publication kind. It returns the publish tasks in registration order.
func (s *Scheduler) Schedule(components []Component, repos []repository.Repository) ([]PublishTask, error) {
	var publishAll []string
	perRepo := map[string][]string{}
	var generateAll []string
	var tasks []PublishTask

	for _, c := range components {
		staged := s.stage(c)
		for _, sp := range staged {
			metadata := MetadataTaskName(sp.name)
			descriptor := DescriptorTaskName(sp.kind, sp.name)
			if err := s.registerGenerate(metadata, sp); err != nil {
				return nil, err
			}
			if err := s.registerGenerate(descriptor, sp); err != nil {
				return nil, err
			}
			generateAll = append(generateAll, metadata, descriptor)
		}

		bridge := staged[0]
		variants := staged[1:]
		for _, repo := range repos {
			if repo.Layout().Kind() != c.Kind {
				s.info(fmt.Sprintf("Skipping %s publication '%s' for %s repository '%s'.", c.Kind, c.Name, repo.Layout(), repo.Name()))
				continue
			}
			var variantTasks []string
			for _, v := range variants {
				name := PublishTaskName(v.name, repo.Name())
				if err := s.registerPublish(name, v, repo, nil); err != nil {
					return nil, err
				}
				variantTasks = append(variantTasks, name)
				tasks = append(tasks, PublishTask{
					Name: name, Component: c.Name, Publication: v.name,
					Coordinate: v.ref.String(), Repository: repo.Name(),
				})
			}

			name := PublishTaskName(bridge.name, repo.Name())
			if err := s.registerPublish(name, bridge, repo, &c); err != nil {
				return nil, err
			}
			task, _ := s.Graph.Task(name)
			task.MustRunAfter(variantTasks...)
			if !repo.SkipGate() {
				gate := AvailabilityGate{Repository: repo, Variants: c.VariantRefs(), UI: s.UI}
				task.OnlyIf(gate.Allow)
			}
			tasks = append(tasks, PublishTask{
				Name: name, Component: c.Name, Publication: bridge.name,
				Coordinate: bridge.ref.String(), Repository: repo.Name(), Bridge: true,
			})

			all := append(variantTasks, name)
			perRepo[repo.Name()] = append(perRepo[repo.Name()], all...)
		}
	}

	for _, repo := range repos {
		name := PublishAllTaskName(repo.Name())
		task, err := s.Graph.Register(name, nil)
		if err != nil {
			return nil, err
		}
		task.DependsOn(perRepo[repo.Name()]...)
		publishAll = append(publishAll, name)
	}
	publishTask, err := s.Graph.Register(TaskPublish, nil)
	if err != nil {
		return nil, err
	}
	publishTask.DependsOn(publishAll...)
	generateTask, err := s.Graph.Register(TaskGenerate, nil)
	if err != nil {
		return nil, err
	}
	generateTask.DependsOn(generateAll...)
	return tasks, nil
}

// stage returns the bridge followed by the variants of c.
func (s *Scheduler) stage(c Component) []*stagedPublication {
	resolve := s.ResolvePath
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	artifacts := func(paths []string) []string {
		out := make([]string, 0, len(paths))
		for _, p := range paths {
			out = append(out, resolve(p))
		}
		return out
	}

	staged := []*stagedPublication{{
		name:        c.Name,
		kind:        c.Kind,
		declared:    c.Bridge,
		ref:         c.Bridge,
		variantName: "runtimeElements",
		attributes:  c.Config.Attributes,
		artifacts:   artifacts(c.Config.Artifacts),
		dir:         filepath.Join(s.BuildDir, c.Name),
		toolVersion: s.ToolVersion,
	}}
	for _, v := range c.Variants {
		declared := v.Ref()
		declared.ID = c.Declared[v.Publication]
		cfg, _ := c.VariantConfig(v.Name)
		staged = append(staged, &stagedPublication{
			name:        v.Publication,
			kind:        c.Kind,
			declared:    declared,
			ref:         v.Ref(),
			variantName: v.Name + "RuntimeElements",
			attributes:  cfg.Attributes,
			artifacts:   artifacts(cfg.Artifacts),
			dir:         filepath.Join(s.BuildDir, v.Publication),
			toolVersion: s.ToolVersion,
		})
	}
	return staged
}

func (s *Scheduler) registerGenerate(name string, sp *stagedPublication) error {
	_, err := s.Graph.Register(name, func(context.Context) error {
		_, err := sp.generate()
		return err
	})
	return err
}

// registerPublish registers the publish task of sp to repo. A non-nil
// bridge routes the upload through the stitcher.
func (s *Scheduler) registerPublish(name string, sp *stagedPublication, repo repository.Repository, bridge *Component) error {
	action := func(ctx context.Context) error {
		return upload(ctx, repo, sp)
	}
	if bridge != nil {
		variants := bridge.VariantRefs()
		action = func(ctx context.Context) error {
			if _, err := sp.generate(); err != nil {
				return err
			}
			return s.Stitcher.Run(ctx, StitchRequest{
				ModulePath: sp.modulePath(),
				Bridge:     sp.ref,
				Variants:   variants,
				Repository: repo,
				Publish: func(ctx context.Context) error {
					return upload(ctx, repo, sp)
				},
			})
		}
	}
	task, err := s.Graph.Register(name, action)
	if err != nil {
		return err
	}
	task.DependsOn(MetadataTaskName(sp.name), DescriptorTaskName(sp.kind, sp.name))
	return nil
}

func (s *Scheduler) info(msg string) {
	if s.UI != nil {
		s.UI.Info(msg)
	}
}
