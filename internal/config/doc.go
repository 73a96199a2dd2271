// Package config loads the server settings from an optional YAML file and
// REHAB_* environment variables, applies ward defaults and validates the
// result. An empty LLM or embedding API key is valid and switches the
// corresponding feature off.
package config
