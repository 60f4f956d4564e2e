// Package config provides configuration structures and utilities for the
// harvester. It holds the archive location, the form field names, the walk
// boundaries and the on-disk layout, all of which default to the values the
// archive has used since it went online.
package config
