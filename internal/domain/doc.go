// Package domain contains the ward's core entities: patients and their stay,
// progress notes, documentation reminders, reusable phrase templates,
// rehabilitation plans and knowledge-base documents. The entities are
// independent of storage and transport.
package domain
