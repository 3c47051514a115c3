// Package pipeline wires collection, analysis, charting and reporting into one run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"MarketCorrelator/internal/calculator"
	"MarketCorrelator/internal/chart"
	"MarketCorrelator/internal/collector"
	"MarketCorrelator/internal/export"
	"MarketCorrelator/internal/model"
	"MarketCorrelator/internal/notifier"
	"MarketCorrelator/internal/recorder"
)

// TopPairCount is how many correlated pairs a run lists.
const TopPairCount = 5

// Sender delivers a formatted run report.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Options configures a run.
type Options struct {
	Start     time.Time
	End       time.Time // zero means up to today
	StartText string
	EndText   string
	OutDir    string
	SaveCSV   bool
	Display   bool
	DPI       int
	WidthIn   float64
	HeightIn  float64
}

// Report holds every intermediate result of a run. Fields past the stage a run stopped at are nil.
type Report struct {
	Stamp       string
	Tickers     []string
	Prices      *model.PriceTable
	Dropped     []string
	Returns     *model.PriceTable
	Correlation *model.CorrelationMatrix
	Normalized  *model.PriceTable
	Pairs       []model.Pair
	Files       []string
	Shown       []string // temp images handed to the viewer
}

// Runner executes the analysis pipeline.
type Runner struct {
	Collector *collector.Collector
	Options   Options
	Out       io.Writer // user facing progress and results
	Log       *zap.Logger
	Recorder  recorder.Recorder
	Notifier  Sender // nil disables notifications
	Viewer    chart.Viewer
	Now       func() time.Time
}

// NewRunner creates a Runner printing to stdout with no history and no notifications.
func NewRunner(c *collector.Collector, opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Collector: c,
		Options:   opts,
		Out:       os.Stdout,
		Log:       log,
		Recorder:  recorder.NewNoopRecorder(),
		Viewer:    chart.BrowserViewer{},
		Now:       time.Now,
	}
}

// Run analyses tickers. Every run, including early stops, is recorded and reported;
// failures there are logged and never change the returned error.
func (r *Runner) Run(ctx context.Context, tickers []string) (*Report, error) {
	started := r.now()
	rep := &Report{Stamp: Stamp(started), Tickers: tickers}
	err := r.run(ctx, rep)
	r.finish(ctx, started, rep, err)
	return rep, err
}

func (r *Runner) run(ctx context.Context, rep *Report) error {
	if len(rep.Tickers) == 0 {
		r.printf("No tickers specified; exiting.\n")
		return ErrNoTickers
	}

	end := r.Options.EndText
	if end == "" {
		end = "today"
	}
	r.printf("Fetching %d tickers from %s to %s...\n", len(rep.Tickers), r.Options.StartText, end)

	prices, err := r.Collector.Collect(ctx, rep.Tickers, r.Options.Start, r.Options.End)
	if errors.Is(err, collector.ErrNoDataReturned) {
		r.printf("No data returned for the requested tickers/date range; exiting.\n")
		return err
	}
	if err != nil {
		return fmt.Errorf("collect prices: %w", err)
	}

	prices, rep.Dropped = calculator.DropEmptyColumns(prices)
	rep.Prices = prices
	if len(rep.Dropped) > 0 {
		r.printf("Dropping columns with no data: %v\n", rep.Dropped)
	}
	if prices.Empty() {
		r.printf("No price data available after dropping empty columns; skipping plots.\n")
		return ErrEmptyAfterClean
	}

	if r.Options.SaveCSV {
		path, err := export.SaveCSV(r.Options.OutDir, rep.Stamp, rep.Tickers, prices)
		if err != nil {
			return err
		}
		rep.Files = append(rep.Files, path)
		r.printf("Saved adjusted close CSV to %s\n", path)
	}

	rep.Returns = calculator.Returns(prices)
	rep.Correlation = calculator.Correlation(rep.Returns)
	rep.Normalized = calculator.Normalize(prices)

	out := chart.NewOutput(r.Options.OutDir, rep.Stamp, r.Options.DPI,
		r.Options.WidthIn, r.Options.HeightIn, r.Viewer, r.Log)

	if !calculator.HasFinite(rep.Normalized) {
		r.printf("No finite numeric data to plot after normalization; skipping normalized chart.\n")
	} else {
		fig, err := chart.NormalizedPriceChart(rep.Normalized)
		if err != nil {
			return fmt.Errorf("build normalized chart: %w", err)
		}
		if err := r.present(out, fig, "normalized price chart", rep); err != nil {
			return err
		}
	}

	if rep.Correlation.Empty() {
		r.printf("Correlation matrix is empty; skipping heatmap and pair listing.\n")
		return ErrEmptyCorrelation
	}
	fig, err := chart.CorrelationHeatmap(rep.Correlation)
	if err != nil {
		return fmt.Errorf("build heatmap: %w", err)
	}
	if err := r.present(out, fig, "correlation heatmap", rep); err != nil {
		return err
	}
	if rep.Correlation.Len() < 2 {
		r.printf("Correlation matrix has a single ticker; heatmap shows only the diagonal.\n")
	}

	rep.Pairs = calculator.TopPairs(rep.Correlation, TopPairCount)
	r.printf("Highest Correlations (unique pairs):\n")
	for _, p := range rep.Pairs {
		r.printf("%-8s %-8s %.6f\n", p.A, p.B, p.Value)
	}
	return nil
}

// present saves or displays fig and always releases it. A displayed image stays in the
// temp dir because viewer launchers return before the viewer has read it. A viewer that
// cannot open the image falls back to saving it under the output directory.
func (r *Runner) present(out *chart.Output, fig *chart.Figure, label string, rep *Report) error {
	defer fig.Close()

	if r.Options.Display {
		tmp, err := out.Show(fig)
		if err == nil {
			rep.Shown = append(rep.Shown, tmp)
			r.printf("Displayed %s inline\n", label)
			return nil
		}
		if tmp != "" {
			os.Remove(tmp)
		}
		r.Log.Warn("display failed, saving instead", zap.String("chart", fig.Name), zap.Error(err))
	}

	path, err := out.Save(fig)
	if err != nil {
		return err
	}
	rep.Files = append(rep.Files, path)
	r.printf("Saved %s to %s\n", label, path)
	return nil
}

func (r *Runner) finish(ctx context.Context, started time.Time, rep *Report, runErr error) {
	sum := &model.RunSummary{
		StartedAt: started,
		Tickers:   rep.Tickers,
		Start:     r.Options.StartText,
		End:       r.Options.EndText,
		Dropped:   rep.Dropped,
		Outcome:   model.OutcomeOK,
		Pairs:     rep.Pairs,
		Files:     rep.Files,
	}
	if rep.Prices != nil {
		sum.Rows = rep.Prices.Len()
	}
	if runErr != nil {
		sum.Outcome = runErr.Error()
	}

	if runErr != nil && !IsBenign(runErr) {
		r.Log.Error("run failed", zap.String("stamp", rep.Stamp), zap.Error(runErr))
	} else {
		r.Log.Info("run finished",
			zap.String("stamp", rep.Stamp),
			zap.String("outcome", sum.Outcome),
			zap.Int("rows", sum.Rows),
			zap.Int("files", len(sum.Files)),
		)
	}

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(sum); err != nil {
			r.Log.Error("record run", zap.Error(err))
		}
	}
	if r.Notifier != nil {
		if err := r.Notifier.Send(ctx, notifier.FormatRunReport(sum)); err != nil {
			r.Log.Error("send run report", zap.Error(err))
		}
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
