package api

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/vrecan/death/v3"

	"github.com/swagftw/pychain/pkg/blockchain"
	"github.com/swagftw/pychain/pkg/ledger"
	chainHttp "github.com/swagftw/pychain/transport/blockchain"
	"github.com/swagftw/pychain/utl/config"
	"github.com/swagftw/pychain/utl/server"
)

const shutdownTimeout = 10 * time.Second

// Start creates the chain and serves it over http until the process is interrupted.
func Start(cfg *config.Config) error {
	errChan := make(chan error, 1)

	chain, err := blockchain.NewChain(blockchain.GenesisRecord, cfg.GenesisCreatorID, cfg.Difficulty)
	if err != nil {
		return errors.Wrap(err, "failed to create chain")
	}

	chain.SetMaxAttempts(cfg.MaxAttempts)
	log.Printf("Initializing chain with difficulty %d", cfg.Difficulty)

	// get echo
	ech := server.InitEcho()
	v1Group := ech.Group("/v1")

	// init handlers
	chainHttp.NewHTTP(v1Group, ledger.NewService(chain, ledger.Options{MiningTimeout: cfg.MiningTimeout}))

	// start server
	go func() {
		errChan <- server.StartHTTPServer(ech, cfg.Addr)
	}()

	go func() {
		d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

		d.WaitForDeathWithFunc(func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := ech.Shutdown(ctx); err != nil {
				log.Printf("error shutting down server : %v", err)
			}
		})
	}()

	// Wait for the server to exit
	return <-errChan
}
