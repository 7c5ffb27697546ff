// Package domain contains the core entities of the content generation
// service: the inbound generation request and its settings, the provider
// enumeration, per-requester provider credentials and the generated content
// record. It is independent of any transport, storage or provider SDK.
package domain
