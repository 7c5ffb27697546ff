// Package api handles the content generation HTTP endpoint. It decodes and
// validates the request, calls the content service, and maps domain and
// service errors to status codes and sanitized messages.
package api
