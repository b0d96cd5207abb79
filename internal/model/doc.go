// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the format-agnostic Go representation of a gridflow
// workflow definition. Loaders (see hcladapter) turn definition files into a
// Grid; the Grid then builds the executable workflow.
//
// # Core Concepts
//
//   - Grid: The root container representing an entire workspace. It aggregates
//     the steps, outputs and executions found in one or more files.
//
//   - Step: One node of the workflow. It names a task type known to the
//     registry, the steps whose results it consumes, and the arguments the task
//     is built with.
//
//   - Output: Marks the result of a step as a result of the whole run.
//
//   - Execution: One named set of run arguments. A grid with several
//     executions runs the workflow once per execution.
//
//   - FSInfo: Links every definition back to its source file for error
//     messages.
//
// All values in the model are already evaluated. Nothing downstream of this
// package needs to know which file format the user wrote.
package model
