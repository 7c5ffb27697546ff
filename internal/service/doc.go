// Package service contains the application use cases. It coordinates the
// credential store (internal/store) and the content generator
// (internal/generation) to fulfil a content generation request, and
// translates their failures into application-level errors the API layer can
// map to HTTP responses.
//
// Services receive their dependencies through constructor injection and
// depend only on interfaces, never on infrastructure packages.
package service
