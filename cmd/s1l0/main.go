// Command s1l0 is a thin CLI front-end over the s1l0 library: decode one
// burst, print packet metadata, or print reassembled ephemeris frames.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/mewkiz/s1l0"
	"github.com/mewkiz/s1l0/header"
)

var logLevel string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "s1l0",
		Short:         "decode ESA Sentinel-1 Level-0 SAR telemetry files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.AddCommand(newMetadataCmd(), newDecodeCmd(), newEphemerisCmd())
	return root
}

func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <file>",
		Short: "print decoded packet metadata as a delimited table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s1l0.Open(args[0], s1l0.WithLogger(newLogger()))
			if err != nil {
				return err
			}
			defer f.Close()
			return printMetadata(cmd.OutOrStdout(), f.PacketMetadata(), f.ChunkIndex())
		},
	}
}

func printMetadata(w io.Writer, cols header.Columns, chunks []int) error {
	fmt.Fprintln(w, strings.Join([]string{
		"packet", "chunk", "swath", "signal_type", "baq_mode", "num_quads", "pri_count",
	}, "\t"))
	for i := range cols.SwathNumber {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%d\t%d\n",
			i, chunks[i], cols.SwathNumber[i], cols.SignalType[i], cols.BAQMode[i],
			cols.NumQuads[i], cols.PRICount[i])
	}
	return nil
}

func newDecodeCmd() *cobra.Command {
	var burst int
	var useCache bool
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "decode one burst's radar echoes into complex I/Q samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s1l0.Open(args[0], s1l0.WithLogger(newLogger()))
			if err != nil {
				return err
			}
			defer f.Close()

			meta, err := f.BurstMetadata(burst)
			if err != nil {
				return err
			}

			var opts []s1l0.BurstDataOption
			if useCache {
				opts = append(opts, s1l0.WithCache())
			}

			bar := progressbar.NewOptions64(int64(len(meta.SwathNumber)),
				progressbar.OptionSetWriter(cmd.OutOrStdout()),
				progressbar.OptionSetPredictTime(true))
			bar.RenderBlank()

			samples, err := f.BurstData(burst, opts...)
			if err != nil {
				return err
			}
			bar.Add64(int64(len(meta.SwathNumber)))
			fmt.Fprintln(cmd.OutOrStdout())

			fmt.Fprintf(cmd.OutOrStdout(), "burst %d: %d samples\n", burst, len(samples))
			return nil
		},
	}
	cmd.Flags().IntVar(&burst, "burst", 0, "burst index to decode")
	cmd.Flags().BoolVar(&useCache, "cache", false, "read/write the on-disk burst cache")
	return cmd
}

func newEphemerisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ephemeris <file>",
		Short: "print reassembled sub-commutated ephemeris/attitude frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s1l0.Open(args[0], s1l0.WithLogger(newLogger()))
			if err != nil {
				return err
			}
			defer f.Close()

			points := f.Ephemeris()
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join([]string{
				"frame", "x", "y", "z", "vx", "vy", "vz", "pvt_timestamp",
			}, "\t"))
			for i, p := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					i,
					formatFloat(p.Position.X), formatFloat(p.Position.Y), formatFloat(p.Position.Z),
					formatFloat(p.Velocity.X), formatFloat(p.Velocity.Y), formatFloat(p.Velocity.Z),
					formatFloat(p.PVTTimestamp))
			}
			return nil
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
