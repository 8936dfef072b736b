// Command pixelveil is the CLI driver for the pixelveil engine.
//
// Usage:
//
//	pixelveil analyze photo.png
//	pixelveil encrypt -m xor -k 42 photo.png out.png
//	pixelveil decrypt -m xor -k 42 out.png restored.png
//	pixelveil embed -c carrier.png -p secret.txt -k 42 out.png
//	pixelveil extract -k 42 out.png recovered.txt
//	pixelveil batch -m blocksub -k 97 *.png
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env next to the binary is optional; the environment wins.
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read configuration")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(cfg.logLevel())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
