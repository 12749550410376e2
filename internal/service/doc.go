// Package service contains the reminder use cases. It coordinates the
// domain rules with the store, the webhook delivery client and the event
// emitter, and knows nothing about HTTP or specific databases.
//
// Two services are provided:
//
//   - ReminderService handles task intake, listing and deletion.
//   - TickService runs one select, compose, deliver and purge cycle for the
//     current day.
//
// Services return domain validation errors and the sentinels in errors.go
// unchanged so the API layer can match them with errors.Is. Anything else
// is wrapped in a *ServiceError.
package service
