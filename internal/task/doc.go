// Package task runs background work such as knowledge document ingestion.
//
// Tasks are persisted through a TaskStore before they are queued, so a task
// interrupted by a restart is rebuilt from its stored record by the Factory
// registered for its type and executed again.
package task
