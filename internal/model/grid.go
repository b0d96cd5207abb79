// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Grid structure, which is the root container for all
// definitions loaded from a user's files, and turns it into an executable
// workflow.
//
// A user might split their configuration across many files and directories.
// The Grid consolidates every step, output and execution into a single view,
// so dependencies may span files.
package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
	"github.com/vk/gridflow/internal/workflow"
)

// Grid represents the user's workflow definition.
type Grid struct {
	Steps      []*Step
	Outputs    []*Output
	Executions []*Execution
}

// NewGrid creates and returns an initialized Grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Append adds the definitions of other to g, keeping declaration order.
func (g *Grid) Append(other *Grid) {
	g.Steps = append(g.Steps, other.Steps...)
	g.Outputs = append(g.Outputs, other.Outputs...)
	g.Executions = append(g.Executions, other.Executions...)
}

// TaskFactory builds tasks by type name. The registry implements it.
type TaskFactory interface {
	NewTask(typeName string, defaults task.Args) (task.Task, error)
}

// Blueprint is a built grid: the workflow plus one argument set per execution.
type Blueprint struct {
	Workflow   *workflow.Workflow
	Executions []workflow.Arguments
	Names      []string
}

// Validate checks that names are unique and references resolve.
func (g *Grid) Validate() error {
	var errs []error

	steps := make(map[string]*Step, len(g.Steps))
	for _, s := range g.Steps {
		if prev, dup := steps[s.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: step %q already declared at %s", s.FSInformation, s.Name, prev.FSInformation))
			continue
		}
		steps[s.Name] = s
	}
	for _, s := range g.Steps {
		for _, dep := range s.DependsOn {
			if _, ok := g.resolve(dep); !ok {
				errs = append(errs, fmt.Errorf("%s: step %q depends on unknown step %q", s.FSInformation, s.Name, dep))
			}
		}
	}

	outputs := make(map[string]struct{}, len(g.Outputs))
	for _, o := range g.Outputs {
		if _, dup := outputs[o.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: output %q declared twice", o.FSInformation, o.Name))
		}
		outputs[o.Name] = struct{}{}
		if _, ok := g.resolve(o.Step); !ok {
			errs = append(errs, fmt.Errorf("%s: output %q refers to unknown step %q", o.FSInformation, o.Name, o.Step))
		}
	}

	executions := make(map[string]struct{}, len(g.Executions))
	for _, e := range g.Executions {
		if _, dup := executions[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: execution %q declared twice", e.FSInformation, e.Name))
		}
		executions[e.Name] = struct{}{}
		for stepName := range e.Arguments {
			if _, ok := steps[stepName]; !ok {
				errs = append(errs, fmt.Errorf("%s: execution %q sets arguments for unknown step %q", e.FSInformation, e.Name, stepName))
			}
		}
	}

	return errors.Join(errs...)
}

// resolve finds the step a reference names. A reference is either a step
// name or "<type>.<name>"; an exact name wins.
func (g *Grid) resolve(ref string) (*Step, bool) {
	var qualified *Step
	for _, s := range g.Steps {
		if s.Name == ref {
			return s, true
		}
		if qualified == nil && s.Type+"."+s.Name == ref {
			qualified = s
		}
	}
	return qualified, qualified != nil
}

// Build resolves every step through factory and returns the workflow with
// its executions. A grid without executions gets a single, empty one.
//
// Steps may depend on steps declared later, so UIDs are assigned before any
// node is created and dependencies are wired by UID.
func (g *Grid) Build(ctx context.Context, factory TaskFactory) (*Blueprint, error) {
	logger := ctxlog.FromContext(ctx)

	if err := g.Validate(); err != nil {
		return nil, err
	}

	uids := make(map[string]nodeid.UID, len(g.Steps))
	for _, s := range g.Steps {
		uids[s.Name] = nodeid.NewUID(s.Type)
	}

	nodes := make([]*node.Node, 0, len(g.Steps)+len(g.Outputs))
	for _, s := range g.Steps {
		t, err := factory.NewTask(s.Type, s.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: step %q: %w", s.FSInformation, s.Name, err)
		}
		deps := make([]nodeid.UID, len(s.DependsOn))
		for i, dep := range s.DependsOn {
			target, _ := g.resolve(dep)
			deps[i] = uids[target.Name]
		}
		nodes = append(nodes, node.New(t,
			node.WithUID(uids[s.Name]),
			node.WithName(s.Name),
			node.WithInputUIDs(deps...),
		))
	}
	for _, o := range g.Outputs {
		target, _ := g.resolve(o.Step)
		nodes = append(nodes, node.New(task.Output(o.Name),
			node.WithName(o.NodeName()),
			node.WithInputUIDs(uids[target.Name]),
		))
	}

	wf, err := workflow.New(nodes...)
	if err != nil {
		return nil, err
	}

	bp := &Blueprint{Workflow: wf}
	executions := g.Executions
	if len(executions) == 0 {
		executions = []*Execution{{Name: DefaultExecutionName}}
	}
	for _, e := range executions {
		args, err := wf.ArgumentsByName(e.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: execution %q: %w", e.FSInformation, e.Name, err)
		}
		bp.Executions = append(bp.Executions, args)
		bp.Names = append(bp.Names, e.Name)
	}

	logger.Debug("Grid built.", "steps", len(g.Steps), "outputs", len(g.Outputs), "executions", len(bp.Executions))
	return bp, nil
}
