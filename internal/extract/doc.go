// Package extract turns one archive page into a long-format record set.
//
// An archive page holds six HTML tables. The first two are page chrome. The
// remaining four are the weekly statistics, split by bank category: the
// first is the national summary and each later table covers one category.
// The category name of a table is not in the table itself: it is the first
// cell of the last row of the table before it, a subtotal row that carries
// no data of its own.
//
// Extract folds over the payload tables carrying the current level label,
// tags each data row with it, and appends the report date:
//
//	Summary            <- initial label
//	  table 2 rows[0:n-1]  tagged Summary
//	  table 2 row[n-1][0]  becomes the next label
//	  table 3 rows[0:m-1]  tagged with that label
//	  ...
//
// Tables are read the way a spreadsheet import would read them: header rows
// are the <thead> rows or the leading rows made only of <th> cells, and
// colspan/rowspan cells are repeated into every position they cover.
package extract
