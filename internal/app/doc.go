// Package app implements the application service that orchestrates an
// analysis request: batch acquisition, backend selection with fallback,
// normalization, and publication.
package app
