// Package loader turns a sweep parameter into a loaded graph: it renders the
// file path, fetches the bytes and decodes the GraphML.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/dd0wney/cluso-conductance/pkg/graph"
	"github.com/dd0wney/cluso-conductance/pkg/graphml"
	"github.com/dd0wney/cluso-conductance/pkg/logging"
	"github.com/dd0wney/cluso-conductance/pkg/metrics"
	"github.com/dd0wney/cluso-conductance/pkg/source"
)

// ErrLoad matches every *LoadError with errors.Is
var ErrLoad = errors.New("graph load failed")

// LoadError reports a graph file that could not be fetched or decoded
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load graph %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// PathTemplate renders a graph location from a sweep parameter, e.g.
// "mmgephi graphs/mmgephi_{{.Param}}.graphml". Param is the parameter in its
// shortest decimal form, so 10 renders as "10" and 0.5 as "0.5".
type PathTemplate struct {
	raw  string
	tmpl *template.Template
}

// ParsePathTemplate compiles a path template
func ParsePathTemplate(raw string) (*PathTemplate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("path template is empty")
	}
	tmpl, err := template.New("path").Option("missingkey=error").Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse path template %q: %w", raw, err)
	}
	return &PathTemplate{raw: raw, tmpl: tmpl}, nil
}

// FormatParam formats a sweep parameter the way templates and logs see it
func FormatParam(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// Render returns the path for param
func (t *PathTemplate) Render(param float64) (string, error) {
	var buf bytes.Buffer
	data := struct{ Param string }{Param: FormatParam(param)}
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render path template %q: %w", t.raw, err)
	}
	return buf.String(), nil
}

func (t *PathTemplate) String() string { return t.raw }

// Loader fetches and decodes graph files
type Loader struct {
	source   source.Source
	template *PathTemplate
	decode   graphml.Options
	logger   logging.Logger
	metrics  *metrics.Registry
}

// Config describes where graphs live and how their weights are read
type Config struct {
	PathTemplate string
	Decode       graphml.Options
}

// New creates a Loader. A nil logger discards output and a nil registry
// uses metrics.DefaultRegistry.
func New(src source.Source, cfg Config, logger logging.Logger, reg *metrics.Registry) (*Loader, error) {
	tmpl, err := ParsePathTemplate(cfg.PathTemplate)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Loader{
		source:   src,
		template: tmpl,
		decode:   cfg.Decode,
		logger:   logger.With(logging.Component("loader")),
		metrics:  reg,
	}, nil
}

// PathFor renders the graph location for param
func (l *Loader) PathFor(param float64) (string, error) {
	return l.template.Render(param)
}

// LoadParam loads the graph of one sweep parameter and returns it with the
// rendered path. Failures, including a template that cannot render, are
// *LoadError; a render failure carries the raw template as its Path.
func (l *Loader) LoadParam(ctx context.Context, param float64) (*graph.Graph, string, error) {
	path, err := l.PathFor(param)
	if err != nil {
		return nil, "", &LoadError{Path: l.template.String(), Cause: err}
	}
	g, err := l.Load(ctx, path)
	return g, path, err
}

// Load fetches and decodes one graph file. Failures are *LoadError.
func (l *Loader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	timer := logging.StartTimer(l.logger, "load graph", logging.Path(path))

	g, err := l.load(ctx, path)
	if err != nil {
		l.metrics.RecordGraphLoad(timer.Elapsed(), 0, 0, err)
		timer.EndError(err)
		return nil, &LoadError{Path: path, Cause: err}
	}

	l.metrics.RecordGraphLoad(timer.Elapsed(), g.NodeCount(), g.EdgeCount(), nil)
	timer.End(logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))
	return g, nil
}

func (l *Loader) load(ctx context.Context, path string) (*graph.Graph, error) {
	data, err := l.source.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return graphml.Decode(bytes.NewReader(data), l.decode)
}

// NewDefaultSource returns the source used for plain paths, file:// and
// s3:// URIs, with snappy inflation of .snappy and .sz files. s3 may be nil
// when no S3 access is configured.
func NewDefaultSource(s3 source.Source) source.Source {
	mux := source.NewMux(source.FileSource{})
	if s3 != nil {
		mux.Handle("s3", s3)
	}
	return source.Decompressing{Next: mux}
}
