package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neurlang/spectro/window"
)

func main() {
	var size int
	cmd := &cobra.Command{
		Use:   "wininfo [window-name ...]",
		Short: "Print window kernel properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			kernels := window.All()
			if len(args) > 0 {
				kernels = kernels[:0]
				for _, name := range args {
					k, err := window.Lookup(name)
					if err != nil {
						return err
					}
					kernels = append(kernels, k)
				}
			}
			return printTable(cmd.OutOrStdout(), kernels, size)
		},
	}
	cmd.Flags().IntVar(&size, "size", 1024, "window length in samples")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printTable(w io.Writer, kernels []window.Kernel, size int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tCG\tCG meas.\tNPBW [bins]\tENBW meas.\tBW 3dB [bins]\tBW 3dB meas.\tBW 6dB [bins]\tSidelobe [dB]\tRolloff [dB/oct]\tScallop [dB]\n")
	fmt.Fprintf(tw, "------\t--\t--------\t-----------\t----------\t-------------\t------------\t-------------\t-------------\t----------------\t------------\n")
	for _, k := range kernels {
		factors, err := k.Factors(size)
		if err != nil {
			return err
		}
		a := window.Analyze(factors)
		fmt.Fprintf(tw, "%s\t%.3f\t%.4f\t%.2f\t%.4f\t%.2f\t%.4f\t%.2f\t%.1f\t%.0f\t%.2f\n",
			k.Title(),
			k.CoherentGain,
			a.CoherentGain,
			k.NoisePowerBandwidth,
			a.ENBW,
			k.Width3dB,
			a.Bandwidth3dB,
			k.Width6dB,
			k.MaxSideLobeLevel,
			k.RolloffRate,
			a.ScallopLossdB,
		)
	}
	return tw.Flush()
}
