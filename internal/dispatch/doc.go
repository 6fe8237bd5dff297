// Package dispatch decides which channels a notification is sent through
// and drives the attempts.
//
// A dispatch run is sequential. The primary channel comes from the event
// type. When it fails and the priority is CRITICAL or HIGH, the fallback
// chain for that channel is walked in order until a send succeeds. The
// in-app channel is terminal: reaching it inside a chain ends the walk.
// If nothing succeeded, one in-app write is forced so the user can still
// see the notification, but the record keeps status FAILED.
//
// Every run ends with exactly one signed record handed to the store.
// Channel sends and the store write use a context detached from the
// caller's cancellation, so a client hanging up cannot lose a notification
// that was already sent.
package dispatch
