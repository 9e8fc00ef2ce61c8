package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/neurlang/spectro/codec"
	"github.com/neurlang/spectro/internal/config"
	"github.com/neurlang/spectro/logging"
	"github.com/neurlang/spectro/pcm"
	"github.com/neurlang/spectro/spectral"
)

func main() {
	cmd := &cobra.Command{
		Use:   "toimage <audio_file> [png_file]",
		Short: "Render a WAV or FLAC file as a spectrogram PNG",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  run,
	}
	config.AddFlags(cmd.Flags())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	c, err := config.FromFlags(fs, cmd.Flags())
	if err != nil {
		return err
	}
	log, err := c.Logger(os.Stderr)
	if err != nil {
		return err
	}

	input := args[0]
	output := input + ".png"
	if len(args) > 1 {
		output = args[1]
	}

	buf, err := pcm.Read(fs, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	cfg, err := c.Analysis()
	if err != nil {
		return err
	}
	cfg.Phase = false
	cfg.Logger = log

	s, err := spectral.AnalyzeContext(cmd.Context(), buf, cfg)
	if err != nil {
		return err
	}
	im, err := codec.Encode(s)
	if err != nil {
		return err
	}
	if err := codec.Save(fs, output, im); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}

	log.Info("spectrogram written", logging.Fields{
		"input":  input,
		"output": output,
		"frames": s.Len(),
		"bins":   s.BinCount(),
		"window": cfg.Window.Name,
	})
	return nil
}
