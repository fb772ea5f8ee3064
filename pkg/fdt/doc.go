// Package fdt reads flattened device tree blobs (dtb files).
//
// Only the parts needed to inspect a compiled board description are
// decoded: the header, the structure block and the strings block. The
// memory reservation block is skipped.
//
// # Usage
//
//	tree, err := fdt.ParseFile("board.dtb")
//	if err != nil {
//		return err
//	}
//	root := tree.Root()
//	model, _ := root.StringProperty("model")
//	compatibles, _ := root.StringListProperty("compatible")
//
// # Format
//
// A blob starts with a big-endian header (magic 0xd00dfeed) that locates the
// structure and strings blocks. The structure block is a stream of 32-bit
// tokens (BEGIN_NODE, END_NODE, PROP, NOP, END); property names are offsets
// into the strings block.
package fdt
