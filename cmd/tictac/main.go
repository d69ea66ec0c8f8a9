package main

import (
	"os"

	"github.com/fatih/color"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
