// Package shelfmap is the application layer. It orchestrates the shelf
// map layout, barcode lookups, stock declarations, and the dropdown and
// supplier reference lists on top of the repository interfaces.
package shelfmap
