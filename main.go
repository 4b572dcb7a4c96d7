package main

import (
	"os"

	"pdf-split/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
