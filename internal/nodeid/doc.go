/*
Package nodeid provides the identifiers attached to workflow nodes.

A UID is generated once per node and never changes. It takes the form
`<TaskType>-<uuid>` so that log lines stay readable without a lookup.

A Name is the human-readable label of a node inside one workflow. Names
are unique per workflow: when two nodes ask for the same label, the later
ones get a bracketed index, e.g. `load`, `load[1]`, `load[2]`.
*/
package nodeid
