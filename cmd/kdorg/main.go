package main

import (
	"os"

	"github.com/mattn/go-isatty"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	code := execute(os.Args[1:], cliEnv{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		cwd:         cwd,
		interactive: isTerminal(os.Stderr),
	})
	if code != 0 {
		os.Exit(code)
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
