// Package walker drives a harvest. It reads the landing page to learn the
// newest report date, then steps back one interval at a time until the
// cutoff. For each date it loads the page (from cache, or the network on a
// miss), extracts the records and writes csv/<date>.csv.
//
// The walk is sequential. Pages that fail extraction are skipped; transport
// and filesystem errors stop the run.
package walker
