package oracle

import "math"

// The contract stores scores on a signed -1000..1000 scale while the API
// and dashboard use 0..100. The two conversions are exact inverses up to
// rounding and every reader of ledger state uses them symmetrically.

// DisplayToLedger converts a 0-100 display score to the contract scale.
func DisplayToLedger(display int) int64 {
	return int64(math.Round((float64(display)/100*2 - 1) * 1000))
}

// LedgerToDisplay converts a contract-scale score back to 0-100.
func LedgerToDisplay(ledger int64) int {
	return int(math.Round((float64(ledger)/1000 + 1) / 2 * 100))
}
