// Package server provides the HTTP surface of the sentiment oracle:
// the analyze endpoint, cached sentiment reads, and observability routes.
package server
