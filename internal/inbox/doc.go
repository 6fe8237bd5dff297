// Package inbox delivers in-app notifications to live subscribers.
//
// Hub keeps one topic per user with any number of subscribers (typically
// WebSocket connections). Publishing never blocks: a subscriber whose buffer
// is full is dropped and its channel closed, and the client is expected to
// reconnect and reload its history from the record store. The number of
// users with open topics is bounded; when the bound is exceeded the least
// recently used topic is closed.
//
// Relay wraps a Hub and mirrors every publish through Redis so that
// subscribers connected to other instances receive it too.
package inbox
