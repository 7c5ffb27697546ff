// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// The only persisted data this service reads is the per-requester table of
// LLM provider credentials; it never writes to it.
package store
