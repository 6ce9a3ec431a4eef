// ABOUTME: Entry point for gpu-memory CLI
// ABOUTME: Interactive calculator and scriptable capacity checks for LLM GPU memory

package main

import (
	"fmt"
	"os"

	"github.com/amazingchow/LLMToolset/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
