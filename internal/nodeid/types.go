package nodeid

import (
	"fmt"

	"github.com/google/uuid"
)

// UID is the unique, immutable identifier of a node.
type UID string

// NewUID returns a fresh identifier prefixed with the given task type.
func NewUID(taskType string) UID {
	if taskType == "" {
		taskType = "node"
	}
	return UID(fmt.Sprintf("%s-%s", taskType, uuid.NewString()))
}

// String implements fmt.Stringer.
func (u UID) String() string {
	return string(u)
}

// Name is a node label with an optional disambiguation index.
type Name struct {
	Base string
	// Index is -1 when the name carries no index.
	Index int
}

// NewName creates a Name without an index.
func NewName(base string) Name {
	return Name{Base: base, Index: -1}
}

// NewNameWithIndex creates a Name with the given index.
func NewNameWithIndex(base string, index int) Name {
	return Name{Base: base, Index: index}
}
