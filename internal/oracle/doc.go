// Package oracle owns publication to the sentiment ledger: the
// display/contract scale conversions, the ledger client implementations,
// and the publisher that keeps the latest-score cache consistent with
// what was committed.
package oracle
