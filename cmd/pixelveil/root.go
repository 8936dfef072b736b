package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelora/pixelveil"
)

var rootCmd = &cobra.Command{
	Use:     "pixelveil",
	Short:   "Deterministic image transform and analysis engine",
	Version: pixelveil.Version,
	Long: `pixelveil applies reversible pixel transforms (swap, xor, shift,
blocksub) and LSB steganography to raster images, analyzes image
complexity, and reports distortion metrics for every operation.`,
}

// Flags shared by the transforming commands.
var keyFlags struct {
	Key        int
	Passphrase string
	Derive     bool
	Strength   int
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&keyFlags.Key, "key", "k", 0, "Integer key in [1,255]")
	cmd.Flags().StringVar(&keyFlags.Passphrase, "passphrase", "", "Byte-sequence key (overrides --key)")
	cmd.Flags().BoolVar(&keyFlags.Derive, "derive", false, "Derive the key from image statistics")
	cmd.Flags().IntVar(&keyFlags.Strength, "strength", 5, "Transform strength 1-10")
}

// resolveKey builds the key from the flags, deriving from the buffer
// when --derive is set.
func resolveKey(buf *pixelveil.Buffer) (pixelveil.Key, error) {
	switch {
	case keyFlags.Derive:
		return pixelveil.DeriveKey(buf, pixelveil.Analyze(buf), keyFlags.Strength)
	case keyFlags.Passphrase != "":
		return pixelveil.NewStreamKey([]byte(keyFlags.Passphrase))
	case keyFlags.Key != 0:
		return pixelveil.NewScalarKey(keyFlags.Key)
	default:
		return pixelveil.Key{}, fmt.Errorf("no key given: use --key, --passphrase or --derive")
	}
}

func currentParams() pixelveil.Params {
	p := pixelveil.DefaultParams()
	p.Strength = keyFlags.Strength
	return p
}
