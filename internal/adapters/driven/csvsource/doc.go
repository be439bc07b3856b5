// Package csvsource reads identity lists from per-group CSV files.
//
// Each resource group has one file named <group>.csv in the input directory.
// A first row with no "@" in any cell is treated as a header and the first
// column whose name contains "email" is read. Files without a header use the
// second column, or the first when a row has a single column.
package csvsource
