package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avelora/pixelveil"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-path]",
	Short: "Score an image and recommend a transform",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buf, err := pixelveil.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open image")
		}

		a := pixelveil.Analyze(buf)

		wtr := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(wtr, "Dimensions\t%d x %d (%d channels)\n", buf.Width, buf.Height, buf.Channels)
		fmt.Fprintf(wtr, "Entropy\t%.3f bits\n", a.Entropy)
		fmt.Fprintf(wtr, "Contrast\t%.2f\n", a.Contrast)
		fmt.Fprintf(wtr, "Edge density\t%.1f%%\n", a.EdgeDensity*100)
		fmt.Fprintf(wtr, "Brightness\t%.1f\n", a.Brightness)
		fmt.Fprintf(wtr, "Complexity\t%s\n", a.Complexity)
		fmt.Fprintf(wtr, "Recommended\t%s\n", a.Recommended)
		fmt.Fprintf(wtr, "Stego capacity\t%d bytes (1 bit/channel)\n", pixelveil.Capacity(buf, 1))
		wtr.Flush()
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
