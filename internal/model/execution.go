// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Execution structure: one named set of run arguments.
// A grid runs its workflow once per execution, which is how a single
// definition fans out over many inputs.
package model

import "github.com/vk/gridflow/internal/task"

// DefaultExecutionName names the implicit execution of a grid that declares none.
const DefaultExecutionName = "default"

// Execution is the format-agnostic representation of an `execution` block.
type Execution struct {
	Name string
	// Arguments are keyed by step name.
	Arguments     map[string]task.Args
	FSInformation *FSInfo
}
