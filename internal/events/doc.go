// Package events decouples services that request background work from the
// task runner that performs it.
//
// A service emits a TaskRequestEvent (for example after storing an uploaded
// knowledge document); registered handlers turn it into a persisted task.
package events
