package main

import (
	"fmt"
	"os"

	"vaxetl/internal/cli"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/infrastructure"
)

func main() {
	err := cli.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	_ = infrastructure.CloseLogFile()
	os.Exit(apperrors.ExitCode(err))
}
