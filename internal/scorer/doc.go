// Package scorer implements the pluggable sentiment backends and the
// normalization that maps each backend's native output onto the canonical
// 0-100 vibe scale.
package scorer
