// Package notification defines the data model shared by the dispatch engine,
// the record stores and the HTTP layer.
package notification
