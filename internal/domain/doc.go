// Package domain holds the model types and interfaces shared across the
// sentiment oracle: canonical scores, ledger records, and the contracts
// between scorers, stores, the ledger, and the application service.
package domain
