// Package service contains the application use cases of the ward assistant.
// It orchestrates domain objects, stores (defined in internal/store) and
// collaborators such as the scheduler, the generator and the knowledge base.
//
// Services receive their dependencies through constructor injection and
// apply transactional boundaries when one operation writes through several
// stores, for example a patient and the reminders materialized for the stay.
//
// Errors are returned either as sentinels callers check with errors.Is, or
// wrapped in a *ServiceError that names the failed operation. Store and
// domain sentinels stay reachable through Unwrap so that the API layer can
// map them to status codes.
package service
