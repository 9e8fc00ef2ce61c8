package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/neurlang/spectro/internal/config"
	"github.com/neurlang/spectro/pcm"
	"github.com/neurlang/spectro/spectral"
	"github.com/neurlang/spectro/wave"
	"github.com/neurlang/spectro/window"
)

func main() {
	var (
		freq      float64
		amplitude float64
		duration  float64
	)
	cmd := &cobra.Command{
		Use:   "spectrum [audio_file]",
		Short: "Compare window kernels on an audio file or a sine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			c, err := config.FromFlags(fs, cmd.Flags())
			if err != nil {
				return err
			}

			var buf wave.Buffer
			if len(args) == 1 {
				buf, err = pcm.Read(fs, args[0])
			} else {
				n := int(duration * float64(c.SamplingFrequency))
				buf, err = wave.Sine(freq, amplitude, c.SamplingFrequency, c.SampleWidth, n)
			}
			if err != nil {
				return err
			}

			cfg, err := c.Analysis()
			if err != nil {
				return err
			}
			cfg.Phase = false
			return compare(cmd.OutOrStdout(), buf, cfg)
		},
	}
	config.AddFlags(cmd.Flags())
	cmd.Flags().Float64Var(&freq, "freq", 220, "sine frequency in Hz")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 0.5, "sine amplitude as a fraction of full scale")
	cmd.Flags().Float64Var(&duration, "duration", 1, "sine duration in seconds")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func compare(w io.Writer, buf wave.Buffer, cfg spectral.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tFrame\tPeak [Hz]\tLevel [dB]\tBin spacing [Hz]\n")
	fmt.Fprintf(tw, "------\t-----\t---------\t----------\t----------------\n")
	for _, k := range window.All() {
		cfg.Window = k
		s, err := spectral.Analyze(buf, cfg)
		if err != nil {
			return err
		}

		best, peak := 0, spectral.Peak{}
		for i := 0; i < s.Len(); i++ {
			if p := s.Frame(i).Peak(); p.Amplitude > peak.Amplitude {
				best, peak = i, p
			}
		}
		f := s.Frame(best)
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.2f\t%.2f\n",
			k.Title(), best, peak.Frequency, f.DB()[peak.Bin], f.BinSpacing())
	}
	return tw.Flush()
}
