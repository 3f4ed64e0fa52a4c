package main

import (
	"os"

	"medical-appointments/cmd/bootstrap"
)

func main() {
	if err := bootstrap.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
