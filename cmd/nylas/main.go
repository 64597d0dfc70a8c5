package main

import (
	"os"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
