package main

import (
	"log"

	"github.com/swagftw/pychain/pkg/api"
	"github.com/swagftw/pychain/utl/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err = api.Start(cfg); err != nil {
		log.Fatal(err)
	}
}
