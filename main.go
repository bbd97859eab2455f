// Package main provides the entry point for the translit CLI tool.
// It delegates execution to the cmd package, which owns argument handling
// and the exit status.
package main

import (
	"translit/cmd"
)

func main() {
	cmd.Execute()
}
