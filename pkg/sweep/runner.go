package sweep

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-conductance/pkg/community"
	"github.com/dd0wney/cluso-conductance/pkg/conductance"
	"github.com/dd0wney/cluso-conductance/pkg/graph"
	"github.com/dd0wney/cluso-conductance/pkg/logging"
	"github.com/dd0wney/cluso-conductance/pkg/metrics"
)

// ParamError reports the sweep parameter at which a run stopped
type ParamError struct {
	Param float64
	Path  string
	Cause error
}

func (e *ParamError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sweep param %s: %v", formatParam(e.Param), e.Cause)
	}
	return fmt.Sprintf("sweep param %s (%s): %v", formatParam(e.Param), e.Path, e.Cause)
}

func (e *ParamError) Unwrap() error { return e.Cause }

// EmptySweepError reports a graph that produced no communities
type EmptySweepError struct {
	Param float64
}

func (e *EmptySweepError) Error() string {
	return fmt.Sprintf("sweep param %s: graph has no communities", formatParam(e.Param))
}

func (e *EmptySweepError) Is(target error) bool { return target == ErrEmptySweep }

func formatParam(p float64) string { return strconv.FormatFloat(p, 'g', -1, 64) }

// GraphLoader loads the graph belonging to a sweep parameter and reports
// where it came from. *loader.Loader satisfies it.
type GraphLoader interface {
	LoadParam(ctx context.Context, param float64) (*graph.Graph, string, error)
}

// Runner evaluates a sequence of parameter values one graph at a time.
// Workers above 1 scores the communities of each graph concurrently.
type Runner struct {
	Loader    GraphLoader
	Attribute string
	Workers   int
	Logger    logging.Logger
	Metrics   *metrics.Registry
}

// Result holds one Point per parameter, in sweep order
type Result struct {
	RunID     string  `json:"run_id"`
	Attribute string  `json:"attribute"`
	Points    []Point `json:"points"`
}

func (r *Result) Params() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Param
	}
	return out
}

func (r *Result) Means() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Mean
	}
	return out
}

func (r *Result) StdDevs() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.StdDev
	}
	return out
}

// Conductances returns the per-community scores of every point
func (r *Result) Conductances() [][]float64 {
	out := make([][]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Conductances()
	}
	return out
}

func (r *Runner) attribute() string {
	if r.Attribute == "" {
		return community.ModularityClass
	}
	return r.Attribute
}

// Run evaluates params in order. The first failing parameter ends the run:
// the error is a *ParamError, or an *EmptySweepError when the graph has no
// communities. Cancellation is checked between parameters.
func (r *Runner) Run(ctx context.Context, params []float64) (*Result, error) {
	if len(params) == 0 {
		return nil, ErrNoParams
	}

	logger := r.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	reg := r.Metrics
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	res := &Result{
		RunID:     uuid.NewString(),
		Attribute: r.attribute(),
		Points:    make([]Point, 0, len(params)),
	}
	logger = logger.With(logging.Component("sweep"), logging.RunID(res.RunID), logging.Attribute(res.Attribute))
	logger.Info("sweep started", logging.Count(len(params)))
	ev := conductance.Evaluator{Metrics: reg, Logger: logger, Workers: r.Workers}

	for _, param := range params {
		if err := ctx.Err(); err != nil {
			return nil, &ParamError{Param: param, Cause: err}
		}

		point, err := r.runParam(ctx, param, ev)
		reg.RecordSweepPoint(param, point.Mean, err)
		if err != nil {
			logger.Error("sweep point failed", logging.Param(param), logging.Error(err))
			return nil, err
		}

		logger.Info("sweep point",
			logging.Param(param),
			logging.Count(len(point.Communities)),
			logging.Float64("mean", point.Mean),
			logging.Float64("std_dev", point.StdDev),
			logging.Float64("modularity", point.Modularity),
		)
		res.Points = append(res.Points, point)
	}

	logger.Info("sweep finished", logging.Count(len(res.Points)))
	return res, nil
}

func (r *Runner) runParam(ctx context.Context, param float64, ev conductance.Evaluator) (Point, error) {
	g, path, err := r.Loader.LoadParam(ctx, param)
	if err != nil {
		return Point{}, &ParamError{Param: param, Path: path, Cause: err}
	}

	point, err := evaluateGraph(g, r.attribute(), ev)
	if errors.Is(err, ErrEmptySweep) {
		return Point{}, &EmptySweepError{Param: param}
	}
	if err != nil {
		return Point{}, &ParamError{Param: param, Path: path, Cause: err}
	}

	point.Param = param
	point.Path = path
	return point, nil
}
