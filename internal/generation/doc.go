// Package generation drafts clinical text with a large language model.
//
// It owns everything between the application services and a concrete model
// provider: the Completer boundary implemented by the provider packages, the
// prompt templates, retry with backoff, token accounting and the parsing of
// model output back into domain values. Model output is never trusted: JSON is
// repaired when malformed, phrase categories are checked against the taxonomy,
// and signatures are appended by code rather than generated.
package generation
