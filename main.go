// Package main is the entry point for the promptpack CLI.
package main

import "promptpack.dev/pkg/promptpack/cmd"

func main() {
	cmd.Execute()
}
