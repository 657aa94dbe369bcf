// Package processor assembles the dashboards: it fetches the independent
// inputs of a view concurrently, waits for all of them and hands them to
// the pure rollups.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"esg-insights-go/internal/aggregator"
	"esg-insights-go/internal/logger"
	"esg-insights-go/internal/types"
	"esg-insights-go/internal/vocab"
)

// ErrIndicatorNotFound is returned by Monthly for an unknown indicator.
var ErrIndicatorNotFound = errors.New("indicator not found")

// Source supplies the raw records of each upstream endpoint. The API client
// and the offline workbook both implement it.
type Source interface {
	Metrics(ctx context.Context, s types.Session, axis vocab.Axis) ([]types.MetricRecord, error)
	GeneralReport(ctx context.Context, s types.Session) ([]types.IndicatorRecord, error)
	AxisCounts(ctx context.Context, s types.Session) ([]types.AxisCount, error)
	PlanningReport(ctx context.Context, s types.Session) ([]types.PlanningRecord, error)
	ActionReport(ctx context.Context, s types.Session) ([]types.ActionPlanRecord, error)
}

type Options struct {
	Order  vocab.CategoryOrder
	Policy aggregator.StatusCellPolicy
	Logger *logger.Logger
}

type Processor struct {
	src    Source
	order  vocab.CategoryOrder
	policy aggregator.StatusCellPolicy
	log    *logger.Logger
}

func New(src Source, opts Options) *Processor {
	log := opts.Logger
	if log == nil {
		log = logger.New(logger.Options{Output: io.Discard})
	}
	order := opts.Order
	if order.Version() == "" {
		order = vocab.DefaultCategoryOrder()
	}
	return &Processor{src: src, order: order, policy: opts.Policy, log: log.Component("processor")}
}

// Order is the category layout the processor charts with.
func (p *Processor) Order() vocab.CategoryOrder { return p.order }

// Policy is the status cell policy of the planning report.
func (p *Processor) Policy() aggregator.StatusCellPolicy { return p.policy }

func (p *Processor) done(view string, start time.Time, err error) {
	entry := p.log.WithField("view", view).WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		entry.WithError(err).Warn("dashboard failed")
		return
	}
	entry.Debug("dashboard built")
}

// Analysis fetches the three axes in parallel and builds the ESG analysis.
func (p *Processor) Analysis(ctx context.Context, s types.Session) (res Analysis, err error) {
	defer func(start time.Time) { p.done("analysis", start, err) }(time.Now())

	var metrics [3][]types.MetricRecord
	g, gctx := errgroup.WithContext(ctx)
	for i, axis := range vocab.Axes {
		i, axis := i, axis
		g.Go(func() error {
			recs, err := p.src.Metrics(gctx, s, axis)
			if err != nil {
				return fmt.Errorf("fetch %s metrics: %w", axis.Slug(), err)
			}
			metrics[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}
	return BuildAnalysis(metrics, p.order), nil
}

// General fetches the general report and the per-axis counts in parallel
// and rolls them into the four-column summary.
func (p *Processor) General(ctx context.Context, s types.Session) (res aggregator.GeneralSummary, err error) {
	defer func(start time.Time) { p.done("general", start, err) }(time.Now())

	var (
		indicators []types.IndicatorRecord
		counts     []types.AxisCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		indicators, err = p.src.GeneralReport(gctx, s)
		if err != nil {
			return fmt.Errorf("fetch general report: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = p.src.AxisCounts(gctx, s)
		if err != nil {
			return fmt.Errorf("fetch axis counts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return aggregator.GeneralSummary{}, err
	}
	return aggregator.RollupGeneral(indicators, types.AxisCounts(counts)), nil
}

// Monthly compares the monthly goals and results of one indicator.
func (p *Processor) Monthly(ctx context.Context, s types.Session, indicador string) (res aggregator.Comparison, err error) {
	defer func(start time.Time) { p.done("monthly", start, err) }(time.Now())

	indicators, err := p.src.GeneralReport(ctx, s)
	if err != nil {
		return aggregator.Comparison{}, fmt.Errorf("fetch general report: %w", err)
	}
	rec, ok := aggregator.FindIndicator(indicators, indicador)
	if !ok {
		return aggregator.Comparison{}, fmt.Errorf("%w: %q", ErrIndicatorNotFound, indicador)
	}
	return aggregator.Compare(rec), nil
}

// Planning builds the status × month matrix.
func (p *Processor) Planning(ctx context.Context, s types.Session) (res aggregator.StatusReport, err error) {
	defer func(start time.Time) { p.done("planning", start, err) }(time.Now())

	records, err := p.src.PlanningReport(ctx, s)
	if err != nil {
		return aggregator.StatusReport{}, fmt.Errorf("fetch planning report: %w", err)
	}
	return aggregator.RollupStatus(records, p.policy), nil
}

// Actions builds the action plan report along the category order.
func (p *Processor) Actions(ctx context.Context, s types.Session) (res aggregator.ActionReport, err error) {
	defer func(start time.Time) { p.done("actions", start, err) }(time.Now())

	records, err := p.src.ActionReport(ctx, s)
	if err != nil {
		return aggregator.ActionReport{}, fmt.Errorf("fetch action report: %w", err)
	}
	return aggregator.RollupActions(records, p.order), nil
}
