// slidedeck maintains a YAML registry of presentation slides and
// regenerates Quarto markdown documents from it.
package main

import "github.com/avolkov/slidedeck/cmd"

func main() {
	cmd.Execute()
}
