package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ecfrdash/ecfr-dashboard/dashboardservice"
)

func main() {
	if err := dashboardservice.Run(); err != nil {
		log.Error().Err(err).Msg("ecfr-dashboard exited with error")
		os.Exit(1)
	}
}
