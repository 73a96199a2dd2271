// Package gemini implements generation.Completer on top of Google's Gemini API.
//
// The adapter maps a generation.Request onto a single GenerateContent call,
// classifies the outcome into the generation error sentinels, and retries
// transient failures with generation.WithRetry.
package gemini
