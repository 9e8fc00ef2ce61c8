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
		Use:   "towav <png_file> [wav_file]",
		Short: "Resynthesize a WAV file from a spectrogram PNG",
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
	output := input + ".wav"
	if len(args) > 1 {
		output = args[1]
	}

	im, err := codec.Load(fs, input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if im.Metadata == (codec.Metadata{}) {
		log.Warn("no metadata sidecar, using configured settings", logging.Fields{
			"sidecar": codec.SidecarPath(input),
		})
	}
	s, err := codec.Decode(im, c.Defaults())
	if err != nil {
		return err
	}

	opts, err := c.Synthesis()
	if err != nil {
		return err
	}
	opts.Logger = log
	buf, err := spectral.ResynthesizeContext(cmd.Context(), s, opts)
	if err != nil {
		return err
	}
	if err := pcm.Write(fs, output, buf); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}

	log.Info("waveform written", logging.Fields{
		"input":    input,
		"output":   output,
		"samples":  buf.Len(),
		"rate":     buf.SampleRate(),
		"phase":    opts.Phase.String(),
		"duration": buf.Duration(),
	})
	return nil
}
