// Package api handles incoming HTTP requests, request decoding and
// response formatting for the reminder service. Handlers translate HTTP
// concerns to service calls and map service errors to status codes with
// MapErrorToStatusCode and GetSafeErrorMessage; raw errors only reach the
// logs, redacted.
package api
