// fdtshim-mapping-generator scans a dtb output tree and prints the fdtshim
// mapping document.
package main

import "github.com/OpenTraceLab/fdtshim-mapping/cmd/fdtshim-mapping-generator/cmd"

func main() {
	cmd.Execute()
}
