package main

import (
	"os"

	"github.com/gsanchezu/elasticbox-plugin/cmd"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
