// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Step structure, which is the atomic unit of work within
// a Grid. It represents a single, configured invocation of a task type.
package model

import "github.com/vk/gridflow/internal/task"

// Step is the format-agnostic representation of a `step` block.
type Step struct {
	// Type is the registered task type, e.g. "http_request".
	Type string
	// Name is unique within the grid and becomes the node name.
	Name string
	// DependsOn lists step names. Their results become the positional inputs
	// of this step, in this order.
	DependsOn []string
	// Arguments are the task's construction arguments. Run arguments from an
	// execution override them.
	Arguments     task.Args
	FSInformation *FSInfo
}

// Output is the format-agnostic representation of an `output` block.
type Output struct {
	Name string
	// Step is the name of the step whose result is published.
	Step          string
	FSInformation *FSInfo
}

// NodeName returns the node name used for the output in the workflow.
func (o *Output) NodeName() string {
	return "output." + o.Name
}
