// Package gemini implements the generation.Provider interface using
// Google's Gemini API through the google.golang.org/genai SDK.
//
// A client is created per call because every requester supplies their own
// API key; the underlying *http.Client is shared. Requests carry fixed
// sampling parameters and a fixed safety policy that blocks harassment and
// hate speech rated medium or above.
package gemini
