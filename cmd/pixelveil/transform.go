package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avelora/pixelveil"
)

var transformFlags struct {
	Method  string
	Quality int
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [input] [output]",
	Short: "Apply a transform to an image",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		runTransform(args, false)
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [input] [output]",
	Short: "Apply the inverse transform to an image",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		runTransform(args, true)
	},
}

func runTransform(args []string, inverse bool) {
	kind, err := pixelveil.ParseKind(transformFlags.Method)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown method")
	}

	buf, err := pixelveil.Open(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open image")
	}

	key, err := resolveKey(buf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build key")
	}
	log.Debug().Int("rating", key.Rating()).Msg("key resolved")

	params := currentParams()
	params.Quality = transformFlags.Quality

	var rec *pixelveil.OperationRecord
	if inverse {
		rec, err = pixelveil.ProcessInverse(buf, kind, key, params)
	} else {
		rec, err = pixelveil.Process(buf, kind, key, params)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("transform failed")
	}

	out := outputPath(args, inverse)
	if err := pixelveil.Save(rec.Buffer, out, params); err != nil {
		log.Fatal().Err(err).Msg("failed to save result")
	}

	log.Info().Str("output", out).Msg("done")
	fmt.Println(rec)
}

// outputPath picks the second positional argument or derives one from
// the input name. Derived names are always PNG; lossy output would
// destroy invertibility.
func outputPath(args []string, inverse bool) string {
	if len(args) >= 2 {
		return args[1]
	}
	suffix := "_encrypted"
	if inverse {
		suffix = "_decrypted"
	}
	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	return filepath.Join(cfg.OutputDir, base+suffix+".png")
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)

	for _, cmd := range []*cobra.Command{encryptCmd, decryptCmd} {
		addKeyFlags(cmd)
		cmd.Flags().StringVarP(&transformFlags.Method, "method", "m", "xor", "Transform: swap|xor|shift|blocksub|stego")
		cmd.Flags().IntVarP(&transformFlags.Quality, "quality", "q", 90, "Output quality for JPEG saves (50-100)")
	}
}
