// Package cache stores archive pages on disk, one file per report date.
//
// A page is fetched from the archive at most once per machine: FetchOrLoad
// reads html/<YYYY-MM-DD>.html when it exists and only falls back to the
// network on a miss. Archive pages for past weeks never change, so entries
// never expire.
//
// The cache directory is shared state. A run holds Lock on the data root for
// its whole duration so that two harvests cannot write the same files.
package cache
