package main

import (
	"os"

	"github.com/hashicorp-forge/imeji/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
