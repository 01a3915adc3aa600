package main

import (
	"os"

	"github.com/strawgate/gh-aw-sub001/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
