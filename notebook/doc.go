// Package notebook implements the cell document model: ordered code and
// markup cells with stable handles, versioned sources, structural edits with
// change events, and nbformat 4 (.ipynb) encoding.
package notebook
