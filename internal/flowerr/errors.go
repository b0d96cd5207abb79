// Package flowerr holds the typed errors shared by the workflow packages.
//
// Graph construction problems surface as *GraphError and are returned before
// anything runs. A task failure inside a run surfaces as *ExecutionError and
// halts that run. A failure of a whole run inside the parallel executor
// surfaces as *RunError and never stops sibling runs.
package flowerr

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/gridflow/internal/nodeid"
)

var (
	// ErrCycle marks a graph whose dependencies loop back on themselves.
	ErrCycle = errors.New("dependency cycle")
	// ErrDangling marks a dependency on a node that is not part of the workflow.
	ErrDangling = errors.New("dangling dependency")
	// ErrDuplicate marks two nodes sharing one UID.
	ErrDuplicate = errors.New("duplicate node")
	// ErrNilNode marks a nil entry in a node list.
	ErrNilNode = errors.New("nil node")
	// ErrEmpty marks a workflow without nodes.
	ErrEmpty = errors.New("no nodes")
)

// GraphError reports an invalid workflow graph.
type GraphError struct {
	// Kind is one of the sentinel errors above.
	Kind    error
	NodeUID nodeid.UID
	Detail  string
}

func (e *GraphError) Error() string {
	msg := fmt.Sprintf("invalid workflow graph: %v", e.Kind)
	if e.NodeUID != "" {
		msg += fmt.Sprintf(" at node %s", e.NodeUID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *GraphError) Unwrap() error {
	return e.Kind
}

// ExecutionError wraps the failure of a single node.
type ExecutionError struct {
	NodeUID  nodeid.UID
	NodeName string
	Cause    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("node %q (%s) failed: %v", e.NodeName, e.NodeUID, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Kind names the type of the underlying cause.
func (e *ExecutionError) Kind() string {
	return kindOf(e.Cause)
}

type executionErrorJSON struct {
	NodeUID  nodeid.UID `json:"node_uid"`
	NodeName string     `json:"node_name"`
	Kind     string     `json:"kind"`
	Message  string     `json:"message"`
}

// MarshalJSON keeps the kind and message of the cause, which is all that
// survives a process boundary.
func (e *ExecutionError) MarshalJSON() ([]byte, error) {
	return json.Marshal(executionErrorJSON{
		NodeUID:  e.NodeUID,
		NodeName: e.NodeName,
		Kind:     e.Kind(),
		Message:  messageOf(e.Cause),
	})
}

func (e *ExecutionError) UnmarshalJSON(data []byte) error {
	var raw executionErrorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.NodeUID = raw.NodeUID
	e.NodeName = raw.NodeName
	e.Cause = &RemoteError{ErrKind: raw.Kind, Message: raw.Message}
	return nil
}

// RunError reports a run of the parallel executor that could not produce
// results of its own, e.g. because it panicked or its worker process died.
type RunError struct {
	Index int
	Name  string
	Cause error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %d (%s) failed: %v", e.Index, e.Name, e.Cause)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

type runErrorJSON struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *RunError) MarshalJSON() ([]byte, error) {
	return json.Marshal(runErrorJSON{
		Index:   e.Index,
		Name:    e.Name,
		Kind:    kindOf(e.Cause),
		Message: messageOf(e.Cause),
	})
}

func (e *RunError) UnmarshalJSON(data []byte) error {
	var raw runErrorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Index = raw.Index
	e.Name = raw.Name
	e.Cause = &RemoteError{ErrKind: raw.Kind, Message: raw.Message}
	return nil
}

// RemoteError stands in for an error that was serialized in another process.
type RemoteError struct {
	ErrKind string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

func kindOf(err error) string {
	if err == nil {
		return ""
	}
	if remote, ok := err.(*RemoteError); ok {
		return remote.ErrKind
	}
	return fmt.Sprintf("%T", err)
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
