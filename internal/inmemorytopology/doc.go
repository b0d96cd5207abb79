// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Nodes are kept in an index arena so
// sorting and cycle detection work on plain integer adjacency lists.
package inmemorytopology
