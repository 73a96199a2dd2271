// Package knowledge implements the reference-document knowledge base used to
// ground generated notes and plans.
//
// Uploaded documents are reduced to plain text, split into overlapping
// chunks, embedded through a cached embedder and stored in a persistent
// chromem-go collection. Search embeds the query with the same embedder and
// returns the closest chunks with their source file.
package knowledge
