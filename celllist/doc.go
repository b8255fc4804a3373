// Package celllist provides a Bubble Tea component that renders a notebook as
// a virtualized list of cells.
//
// The list owns per-cell view models (CodeCellView, MarkupCellView), picks a
// render Template by cell kind, hides cells inside collapsed heading regions,
// and only renders cells intersecting the viewport. Focus, selection, scroll
// and mouse changes are published through synchronous event registries.
package celllist
