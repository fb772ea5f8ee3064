// dtb-info shows what the mapping generator sees in a single dtb file
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/dtbdata"
	"github.com/OpenTraceLab/fdtshim-mapping/pkg/fdt"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: dtb-info <file.dtb> [root]")
		fmt.Println("")
		fmt.Println("root is the directory the path is made relative to")
		fmt.Println("(defaults to the directory containing the file)")
		os.Exit(1)
	}

	filename := os.Args[1]
	root := filepath.Dir(filename)
	if len(os.Args) == 3 {
		root = os.Args[2]
	}

	tree, err := fdt.ParseFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing dtb: %v\n", err)
		os.Exit(1)
	}
	showHeader(tree, filename)

	rec, err := dtbdata.Extract(filename, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting record: %v\n", err)
		os.Exit(1)
	}
	showRecord(rec)
}

func showHeader(tree *fdt.Tree, filename string) {
	hdr := tree.Header
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Version: %d (last compatible %d)\n", hdr.Version, hdr.LastCompVersion)
	fmt.Printf("Size: %d bytes\n", hdr.TotalSize)

	root := tree.Root()
	fmt.Printf("Root properties: %d\n", len(root.Properties))
	names := make([]string, 0, len(root.Children))
	for _, child := range root.Children {
		names = append(names, child.Name)
	}
	fmt.Printf("Root children: %s\n", strings.Join(names, ", "))

	if prop, ok := root.Property("#address-cells"); ok {
		if cells, err := prop.AsU32(); err == nil {
			fmt.Printf("Address cells: %d\n", cells)
		}
	}
	if chosen, ok := tree.Lookup("/chosen"); ok {
		if bootargs, ok := chosen.StringProperty("bootargs"); ok {
			fmt.Printf("Bootargs: %s\n", bootargs)
		}
	}
	fmt.Println()
}

func showRecord(rec *dtbdata.Record) {
	fmt.Println("Mapping record:")
	fmt.Printf("  Path: %s\n", rec.Path)
	fmt.Printf("  Model: %s\n", rec.Model)
	fmt.Printf("  Main compatible: %s\n", rec.Compatible())
	fmt.Printf("  Compatible: %s\n", rec.CompatiblesSource())
	fmt.Printf("  Node name: %s\n", rec.NodeName())
}
