// gridcal-pf 对参考网络运行潮流计算
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gridcal "github.com/SanPen/GridCal-sub027"
	"github.com/SanPen/GridCal-sub027/cases"
	"github.com/SanPen/GridCal-sub027/config"
	"github.com/SanPen/GridCal-sub027/results"
	"github.com/SanPen/GridCal-sub027/solver/debug"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// flags 命令行参数
type flags struct {
	options string
	network string
	plot    string
	trace   string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "gridcal-pf",
		Short:        "Run an AC power flow on a reference network",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), f)
		},
	}
	cmd.Flags().StringVarP(&f.options, "options", "o", "", "power flow options YAML file")
	cmd.Flags().StringVarP(&f.network, "case", "c", "five-bus", "reference network name")
	cmd.Flags().StringVar(&f.plot, "plot", "", "write convergence chart (png, svg or pdf)")
	cmd.Flags().StringVar(&f.trace, "trace", "", "write convergence record as JSON")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "cases",
		Short: "List reference networks",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range cases.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})
	return cmd
}

func run(ctx context.Context, out, errOut io.Writer, f flags) error {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	opts, err := config.Load(f.options)
	if err != nil {
		return err
	}
	net, err := cases.Get(f.network)
	if err != nil {
		return err
	}
	pf, err := gridcal.NewPowerFlow(opts, gridcal.WithLogger(logger))
	if err != nil {
		return err
	}
	res, err := pf.Run(ctx, net)
	if err != nil && res == nil {
		return err
	}
	report(out, net.Name, res)

	record := debug.NewRecord(res.RunID, net.Name)
	record.Update(res.Reports...)
	fmt.Fprintf(out, "iterations %d\n", record.Iterations())
	if f.trace != "" {
		if werr := writeFile(f.trace, record.Render); werr != nil {
			return werr
		}
	}
	if f.plot != "" {
		if perr := debug.NewCharts(record).Save(f.plot); perr != nil {
			return perr
		}
	}
	return err
}

// report 输出结果表
func report(w io.Writer, name string, res *results.PowerFlowResult) {
	fmt.Fprintf(w, "network %s  run %s  converged=%t  elapsed=%s\n", name, res.RunID, res.Converged, res.Elapsed)
	for _, r := range res.Reports {
		fmt.Fprintln(w, " ", r)
	}
	fmt.Fprintf(w, "%5s %8s %10s %10s %10s %10s\n", "bus", "mode", "|V|", "angle", "P", "Q")
	for i, v := range res.Voltage {
		fmt.Fprintf(w, "%5d %8s %10.6f %10.4f %10.4f %10.4f\n",
			i, res.BusModes[i], cmplx.Abs(v), cmplx.Phase(v)*180/math.Pi, real(res.Sbus[i]), imag(res.Sbus[i]))
	}
	fmt.Fprintf(w, "%6s %10s %10s %10s\n", "branch", "Pf", "Qf", "loading")
	for k, sf := range res.Sf {
		fmt.Fprintf(w, "%6d %10.4f %10.4f %10.4f\n", k, real(sf), imag(sf), res.Loading[k])
	}
	losses := res.TotalLosses()
	fmt.Fprintf(w, "losses %.6f + j%.6f  max mismatch %.3e\n", real(losses), imag(losses), res.MaxMismatch())
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
