package services

import "errors"

var (
	// ErrClientNotInitialized is returned by GeminiService.Generate when no
	// API key was configured or the client could not be built.
	ErrClientNotInitialized = errors.New("AI client not initialized")

	// ErrTransient covers timeouts, quota exhaustion and 5xx responses.
	ErrTransient = errors.New("transient AI backend failure")

	// ErrUpstream covers any other failure reported by the AI backend.
	ErrUpstream = errors.New("AI backend failure")

	ErrEmptyResponse = errors.New("no text content in response")

	// ErrMalformedOutput means the scoring response did not match the
	// analysis result schema.
	ErrMalformedOutput = errors.New("malformed analysis output")
)
