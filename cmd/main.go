package main

import (
	"os"

	"coges-quiz-app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
