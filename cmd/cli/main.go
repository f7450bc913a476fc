package main

import (
	"log"

	"github.com/swagftw/pychain/pkg/cli"
	"github.com/swagftw/pychain/utl/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	cmd := cli.CommandLine{APIURL: cfg.APIURL}
	cmd.Run()
}
