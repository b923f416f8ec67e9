package main

import (
	"os"

	"github.com/lijamez/tonbot-plugin-trivia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
