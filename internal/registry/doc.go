// Package registry provides the central "glue" for the module system.
//
// The Registry maps the task type names used in workflow definitions (e.g.
// "http_request") to factories that build the compiled Go task. Modules
// register their factories at application startup; the definition loader
// then resolves every step through the registry.
package registry
