// Package main provides the entry point for the pmjdy CLI.
//
// pmjdy harvests the weekly statistics published in the PMJDY archive,
// one page per week, and consolidates them into a single CSV file.
//
// Usage:
//
//	pmjdy                 harvest into ./data and build data.csv
//	pmjdy consolidate     rebuild data.csv from the per-date files
//	pmjdy report          summarize what has been harvested
//
// See --help for all available options.
package main

func main() {
	Execute()
}
