package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/bonus-hours/internal/apiclient"
	"github.com/username/bonus-hours/internal/conformance"
	"go.uber.org/zap"
)

func vectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Generate or verify golden eligibility vectors",
	}

	cmd.AddCommand(vectorsGenerateCmd(), vectorsVerifyCmd())

	return cmd
}

func vectorsGenerateCmd() *cobra.Command {
	var out string
	var fromYear, toYear, samples, days int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write golden vectors computed by the local resolver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			opts := conformance.Options{
				FromYear:      cfg.Conformance.FromYear,
				ToYear:        cfg.Conformance.ToYear,
				SamplesPerDay: cfg.Conformance.SamplesPerDay,
				DaysPerYear:   cfg.Conformance.DaysPerYear,
				Seed:          cfg.Conformance.Seed,
			}
			if cmd.Flags().Changed("from") {
				opts.FromYear = fromYear
			}
			if cmd.Flags().Changed("to") {
				opts.ToYear = toYear
			}
			if cmd.Flags().Changed("samples") {
				opts.SamplesPerDay = samples
			}
			if cmd.Flags().Changed("days") {
				opts.DaysPerYear = days
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if out == "" {
				out = cfg.Conformance.VectorsFile
			}

			vectors, err := conformance.Generate(resolver, opts)
			if err != nil {
				return err
			}
			if err := conformance.SaveFile(out, vectors); err != nil {
				return err
			}

			logger.Info("Vectors generated",
				zap.String("file", out),
				zap.Int("count", len(vectors)),
				zap.Int("from_year", opts.FromYear),
				zap.Int("to_year", opts.ToYear),
				zap.Int64("seed", opts.Seed))

			outPrintf("✅ Wrote %d vectors (%d..%d, seed %d) to %s\n",
				len(vectors), opts.FromYear, opts.ToYear, opts.Seed, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV file (default: conformance.vectors_file)")
	cmd.Flags().IntVar(&fromYear, "from", 0, "First year")
	cmd.Flags().IntVar(&toYear, "to", 0, "Last year")
	cmd.Flags().IntVar(&samples, "samples", 0, "Random wall-clock samples per day")
	cmd.Flags().IntVar(&days, "days", 0, "Random days per year (0 = every day)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Sampler seed")

	return cmd
}

func vectorsVerifyCmd() *cobra.Command {
	var in string
	var remote string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay golden vectors against the local resolver or a remote API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}
			if in == "" {
				in = cfg.Conformance.VectorsFile
			}

			vectors, err := conformance.LoadFile(in, logger)
			if err != nil {
				return err
			}

			var ev conformance.Evaluator = conformance.LocalEvaluator{Resolver: resolver}
			target := "local resolver"
			if remote != "" {
				ev = apiclient.NewClient(remote, logger)
				target = remote
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := conformance.Replay(ctx, ev, vectors, logger)
			if err != nil {
				return err
			}

			if !report.OK() {
				outPrintf("❌ %d of %d vectors disagree with %s\n", len(report.Mismatches), report.Checked, target)
				for i, m := range report.Mismatches {
					if i == 20 {
						outPrintf("   ... and %d more\n", len(report.Mismatches)-i)
						break
					}
					outPrintf("   • %s\n", m)
				}
				return fmt.Errorf("conformance check failed")
			}

			outPrintf("✅ %d vectors agree with %s\n", report.Checked, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Vectors file, .csv or text (default: conformance.vectors_file)")
	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of a running API to verify instead of the local resolver")

	return cmd
}
