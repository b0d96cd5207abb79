// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// A store is created for each workflow run and dropped when the run ends.
// It uses sync.Map because each node's state is written independently and
// the key space is fixed once the run starts.
package inmemorystore
