// Package store defines the persistence interfaces used by the services.
//
// Implementations live in internal/platform/postgres. Every store can be
// rebound to a transaction with WithTx so that a service can combine several
// writes (a patient and its reminders, for example) in one RunInTransaction
// call.
package store
