// The main package for the archivecast executable.
package main

import (
	"github.com/amroutes/archivecast/cmd"
)

func main() {
	cmd.Execute()
}
