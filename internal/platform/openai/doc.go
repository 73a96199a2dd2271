// Package openai adapts OpenAI-compatible endpoints (OpenAI, DeepSeek, Qwen
// and other providers speaking the same wire format) to the generation and
// knowledge packages: chat completions back a generation.Completer and the
// embeddings endpoint backs document and query vectors.
package openai
