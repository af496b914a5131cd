// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/befeleme/trademgen/segments"
	"github.com/befeleme/trademgen/sim"
	"github.com/befeleme/trademgen/sim/trace"
	"github.com/befeleme/trademgen/sim/workload"
)

var (
	segmentsPath      string
	seed              int64
	method            string
	logLevel          string
	traceLevel        string
	withCancellations bool
)

var rootCmd = &cobra.Command{
	Use:   "trademgen",
	Short: "Stochastic travel-demand generator",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a time-ordered stream of booking requests from a segment file",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		if !trace.IsValidLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q", traceLevel)
		}

		genMethod, err := parseMethod(method)
		if err != nil {
			return err
		}

		logrus.Infof("loading segments from %s", segmentsPath)
		segs, err := segments.LoadSegments(segmentsPath)
		if err != nil {
			return fmt.Errorf("loading segments: %w", err)
		}

		specs, err := segments.ExpandToStreamSpecs(segs)
		if err != nil {
			return fmt.Errorf("expanding segments: %w", err)
		}
		logrus.Infof("expanded %d segments into %d demand streams", len(segs), len(specs))

		master := sim.NewMasterRNG(sim.NewSimulationSeed(seed))
		manager, err := sim.BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
		if err != nil {
			return fmt.Errorf("building demand streams: %w", err)
		}

		expected, err := manager.GenerateFirstRequests(genMethod)
		if err != nil {
			return fmt.Errorf("priming demand streams: %w", err)
		}
		logrus.Infof("expecting %d booking requests using method=%s", expected, genMethod)

		gt := trace.NewGenerationTrace(trace.Config{Level: trace.Level(traceLevel)})

		for !manager.IsQueueDone() {
			event, err := manager.PopEvent()
			if err != nil {
				return fmt.Errorf("popping event: %w", err)
			}

			switch event.Kind {
			case sim.EventKindBooking:
				req := event.Booking
				gt.RecordBooking(trace.BookingRecord{
					StreamKey:        req.SourceStreamKey.String(),
					RequestDateTime:  req.RequestDateTime,
					DepartureDate:    req.DepartureDate,
					Cabin:            req.Cabin,
					POS:              req.POS,
					Channel:          req.Channel,
					PartySize:        req.PartySize,
					WillingnessToPay: req.WillingnessToPay,
				})
				if withCancellations {
					manager.GenerateCancellation(req, []string{req.Cabin})
				}
			case sim.EventKindCancellation:
				cancel := event.Cancel
				gt.RecordCancellation(trace.CancellationRecord{
					StreamKey: cancel.SourceStreamKey.String(),
					EventTime: cancel.EventTime,
					PartySize: cancel.PartySize,
				})
			}
		}

		summary := trace.Summarize(gt)
		logrus.Infof("generation complete: %d bookings, %d cancellations, %d streams, mean WTP %.2f, max WTP %.2f",
			summary.TotalBookings, summary.TotalCancellations, summary.UniqueStreams,
			summary.MeanWillingnessToPay, summary.MaxWillingnessToPay)

		return nil
	},
}

func parseMethod(raw string) (sim.GenerationMethod, error) {
	switch raw {
	case "order":
		return sim.MethodStatisticOrder, nil
	case "poisson":
		return sim.MethodPoisson, nil
	default:
		return 0, fmt.Errorf("unknown method %q, want order or poisson", raw)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	generateCmd.Flags().StringVar(&segmentsPath, "segments", "", "Path to a YAML demand-segment file")
	generateCmd.Flags().Int64Var(&seed, "seed", 1, "Master RNG seed")
	generateCmd.Flags().StringVar(&method, "method", "order", "Inter-arrival method: order or poisson")
	generateCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	generateCmd.Flags().StringVar(&traceLevel, "trace", "events", "Trace level: none or events")
	generateCmd.Flags().BoolVar(&withCancellations, "cancellations", true, "Generate cancellations for bookings")
	generateCmd.MarkFlagRequired("segments")

	rootCmd.AddCommand(generateCmd)
}
