package main

import (
	"github.com/runevoice/rune/cmd"
	"github.com/runevoice/rune/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
