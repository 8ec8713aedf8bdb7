package main

import (
	"fmt"
	"os"

	"nicolive-terminal/cmd"
)

const VERSION = "0.1.0"

func main() {
	if err := cmd.Execute(VERSION); err != nil {
		fmt.Fprintln(os.Stderr, "Command execution failed")
		os.Exit(1)
	}
}
