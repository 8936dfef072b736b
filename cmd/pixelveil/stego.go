package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/avelora/pixelveil"
)

var stegoFlags struct {
	Carrier  string
	Payload  string
	Message  string
	Bits     int
	Compress bool
	Noise    bool
}

var embedCmd = &cobra.Command{
	Use:   "embed [output]",
	Short: "Hide a payload inside a carrier image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		carrier, err := pixelveil.Open(stegoFlags.Carrier)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open carrier")
		}

		payload := []byte(stegoFlags.Message)
		if stegoFlags.Payload != "" {
			payload, err = os.ReadFile(stegoFlags.Payload)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to read payload")
			}
		}
		if len(payload) == 0 {
			log.Fatal().Msg("no payload: use --payload or --message")
		}

		key, err := resolveKey(carrier)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build key")
		}

		params := stegoParams()
		out, err := pixelveil.Embed(carrier, payload, key, params)
		if err != nil {
			log.Fatal().Err(err).Msg("embedding failed")
		}

		if err := pixelveil.Save(out, args[0], params); err != nil {
			log.Fatal().Err(err).Msg("failed to save stego image")
		}
		log.Info().
			Int("payload_bytes", len(payload)).
			Int("capacity_bytes", pixelveil.Capacity(carrier, params.BitsPerChannel)).
			Str("output", args[0]).
			Msg("payload embedded")
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [stego-image] [output-file]",
	Short: "Recover a hidden payload from a stego image",
	Long: `Recover a payload embedded with the same key and bit depth.
Extraction with a wrong key yields garbage, not an error: the scheme
carries no integrity check.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		buf, err := pixelveil.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open image")
		}

		key, err := resolveKey(buf)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build key")
		}

		payload, err := pixelveil.Extract(buf, key, stegoParams())
		if err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}

		if len(args) >= 2 {
			if err := os.WriteFile(args[1], payload, 0644); err != nil {
				log.Fatal().Err(err).Msg("failed to write payload")
			}
			log.Info().Int("bytes", len(payload)).Str("output", args[1]).Msg("payload recovered")
			return
		}
		os.Stdout.Write(payload)
	},
}

func stegoParams() pixelveil.Params {
	p := currentParams()
	p.BitsPerChannel = stegoFlags.Bits
	p.Compress = stegoFlags.Compress
	p.AddNoise = stegoFlags.Noise
	return p
}

func init() {
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(extractCmd)

	embedCmd.Flags().StringVarP(&stegoFlags.Carrier, "carrier", "c", "", "Carrier image path (required)")
	embedCmd.MarkFlagRequired("carrier")
	embedCmd.Flags().StringVarP(&stegoFlags.Payload, "payload", "p", "", "Payload file to hide")
	embedCmd.Flags().StringVar(&stegoFlags.Message, "message", "", "Inline text payload")
	embedCmd.Flags().BoolVar(&stegoFlags.Compress, "compress", false, "zstd-compress the payload before embedding")
	embedCmd.Flags().BoolVar(&stegoFlags.Noise, "noise", false, "Fill unused capacity with key-seeded noise")

	for _, cmd := range []*cobra.Command{embedCmd, extractCmd} {
		addKeyFlags(cmd)
		cmd.Flags().IntVar(&stegoFlags.Bits, "bits", 1, "Low bits used per channel (1-2)")
	}
	extractCmd.Flags().BoolVar(&stegoFlags.Compress, "compress", false, "Payload was zstd-compressed at embed time")
}
