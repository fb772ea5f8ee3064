// fdtshim-mapping-query inspects generated fdtshim mapping documents.
package main

import "github.com/OpenTraceLab/fdtshim-mapping/cmd/fdtshim-mapping-query/cmd"

func main() {
	cmd.Execute()
}
