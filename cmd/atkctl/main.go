package main

import (
	"os"

	"codeberg.org/mutker/atkctl/internal/cli"
	"codeberg.org/mutker/atkctl/internal/logger"
)

// exitConfig is EX_CONFIG from sysexits.h.
const exitConfig = 78

func main() {
	err := cli.Execute()
	if err != nil {
		logger.Error().Err(err).Msg("Unable to perform operation")
	}
	logger.Close()

	if err != nil {
		os.Exit(exitConfig)
	}
}
