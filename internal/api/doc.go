// Package api exposes the notification service over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness, body "ALIVE"
//	GET  /readyz                        readiness, body "READY" or "NOT_READY"
//	POST /api/notifications/send        dispatch a notification for the caller
//	GET  /api/notifications             caller's records, newest first, with signatureValid
//	GET  /api/notifications/stream      WebSocket feed of in-app writes for the caller
//	GET  /api/notifications/{id}        one record with signatureValid
//
// Every /api route requires a bearer token. JSON bodies use the envelope
// {"data": ..., "error": {"code", "message", "details"}}.
package api
