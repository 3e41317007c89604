// Command checkers validates data files and browses run history. Test
// binaries that register their own runs call cmd.Execute directly.
package main

import "github.com/abdul-hamid-achik/checkers/apps/cli/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
