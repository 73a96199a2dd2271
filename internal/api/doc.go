// Package api serves the ward API: patients, reminders, progress notes,
// phrase templates, rehab plans, AI drafting, the knowledge base and schedule
// previews. It handles routing, request validation and response formatting,
// translating HTTP concerns to calls on the internal services.
//
// Errors from the services are mapped to status codes by MapErrorToStatusCode
// and never expose driver or provider details to clients.
package api
