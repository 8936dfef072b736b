package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/avelora/pixelveil"
)

var batchFlags struct {
	Method  string
	Workers int
}

var batchCmd = &cobra.Command{
	Use:   "batch [images...]",
	Short: "Apply one transform configuration across many images",
	Long: `Transforms every input image with the same method and key on a
worker pool. A failing image is reported and skipped; the rest of the
batch completes. Ctrl-C stops starting new items without corrupting
already-written outputs.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := pixelveil.ParseKind(batchFlags.Method)
		if err != nil {
			log.Fatal().Err(err).Msg("unknown method")
		}

		// The key must come from a flag here: deriving per image would
		// give every item a different key.
		var key pixelveil.Key
		if keyFlags.Passphrase != "" {
			key, err = pixelveil.NewStreamKey([]byte(keyFlags.Passphrase))
		} else {
			key, err = pixelveil.NewScalarKey(keyFlags.Key)
		}
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build key")
		}

		items := make([]pixelveil.BatchItem, len(args))
		for i, path := range args {
			items[i] = pixelveil.BatchItem{Src: path}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		workers := batchFlags.Workers
		if workers == 0 {
			workers = cfg.Workers
		}

		bar := progressbar.Default(int64(len(items)), "transforming")
		results := pixelveil.RunBatch(ctx, items, kind, key, currentParams(), pixelveil.BatchOptions{
			Workers: workers,
			OnItem:  func(completed, total int) { _ = bar.Add(1) },
		})

		var collected []pixelveil.ItemResult
		for res := range results {
			if res.Err != nil {
				log.Error().Err(res.Err).Str("input", args[res.Index]).Msg("item failed")
				collected = append(collected, res)
				continue
			}
			out := batchOutputPath(args[res.Index])
			if err := pixelveil.Save(res.Record.Buffer, out, currentParams()); err != nil {
				log.Error().Err(err).Str("input", args[res.Index]).Msg("failed to save item")
				res.Err = err
			}
			collected = append(collected, res)
		}

		fmt.Println(pixelveil.Summarize(collected))
	},
}

func batchOutputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(cfg.OutputDir, base+"_encrypted.png")
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addKeyFlags(batchCmd)
	batchCmd.Flags().StringVarP(&batchFlags.Method, "method", "m", "xor", "Transform: swap|xor|shift|blocksub|stego")
	batchCmd.Flags().IntVarP(&batchFlags.Workers, "workers", "w", 0, "Worker pool size (0 = NumCPU)")
}
