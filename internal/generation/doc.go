// Package generation turns a content generation request into validated
// content by asking external LLM providers in priority order. It defines the
// Generator port used by the service layer and the Provider interface every
// provider adapter implements, plus the pieces the fallback Orchestrator is
// built from: the response parser, the content validator, the
// timeout/retry wrapper and the model-hint priority rules.
package generation
