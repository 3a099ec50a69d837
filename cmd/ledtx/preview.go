package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matt-g-everett/ledtx/internal/logging"
	"github.com/matt-g-everett/ledtx/transition"
)

const barWidth = 40

type previewOptions struct {
	duration   time.Duration
	interval   time.Duration
	easing     string
	finalFrame bool
	table      int
}

func newPreviewCmd() *cobra.Command {
	var opts previewOptions
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run one transition and print its progress",
		Long: `Runs a single eased transition against a ticker and prints every delta the
callback receives. With --table, prints evenly spaced samples of the easing
curve instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			if logLevel == "" {
				logLevel = "warn"
			}
			logger, err := logging.New(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}

			easing, err := transition.TimingFuncByName(opts.easing)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(transition.TimingFuncNames(), ", "))
			}
			out := cmd.OutOrStdout()
			if opts.table > 0 {
				printTable(out, transition.Table(easing, opts.table))
				return nil
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			s := transition.NewTickerScheduler(opts.interval)
			go s.Run(ctx)

			var t float64
			sampled := func(x float64) float64 {
				t = x
				return easing(x)
			}
			frame := 0
			report := func(delta float64) {
				fmt.Fprintf(out, "%4d  t=%.3f  delta=%.3f  %s\n", frame, t, delta, bar(delta))
				frame++
			}

			topts := []transition.Option{
				transition.WithTimingFunc(sampled),
				transition.WithScheduler(s),
				transition.WithLogger(logger),
			}
			if opts.finalFrame {
				topts = append(topts, transition.WithFinalFrame())
			}
			tr, err := transition.New(report, opts.duration, topts...)
			if err != nil {
				return err
			}

			run, err := tr.Start(ctx)
			if err != nil {
				return err
			}
			state, err := run.Wait(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s after %d frames\n", state, run.Frames())
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.duration, "duration", time.Second, "Transition duration")
	cmd.Flags().DurationVar(&opts.interval, "interval", 33*time.Millisecond, "Frame interval")
	cmd.Flags().StringVar(&opts.easing, "easing", "linear", "Easing curve")
	cmd.Flags().BoolVar(&opts.finalFrame, "final-frame", false, "Deliver a last frame at full progress")
	cmd.Flags().IntVar(&opts.table, "table", 0, "Print this many samples of the easing curve and exit")
	return cmd
}

func bar(delta float64) string {
	n := int(delta*barWidth + 0.5)
	if n < 0 {
		n = 0
	} else if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("#", n)
}

func printTable(out io.Writer, lut []float64) {
	for i, v := range lut {
		x := 0.0
		if len(lut) > 1 {
			x = float64(i) / float64(len(lut)-1)
		}
		fmt.Fprintf(out, "%.3f  %.3f  %s\n", x, v, bar(v))
	}
}
