// Package dataset reads and writes the per-date CSV files and merges them
// into the master dataset.
package dataset
