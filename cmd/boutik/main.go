package main

import (
	"github.com/mcharvet/boutik/internal/cmd"
)

func main() {
	cmd.Execute()
}
