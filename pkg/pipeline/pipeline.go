// Package pipeline turns a question into a SPARQL query in two stages: pick
// the cube that can answer it, then have the model write a query against it.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/OFFIS-RIT/cubeql/pkg/chain"
	"github.com/OFFIS-RIT/cubeql/pkg/cube"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

var stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cubeql",
	Subsystem: "pipeline",
	Name:      "stage_duration_seconds",
	Help:      "Duration of pipeline stages, including upstream calls.",
	Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
}, []string{"stage", "outcome"})

// Catalog fetches the linked-data context the prompts are built from.
// *sparql.Gateway implements it.
type Catalog interface {
	FetchCatalogDescriptions(ctx context.Context) (string, error)
	FetchCubeSample(ctx context.Context, cube string) (string, error)
	FetchDimensionLabels(ctx context.Context, cube string) (string, error)
}

// Invoker runs a prompt against a model. *chain.Chain implements it.
type Invoker interface {
	Invoke(ctx context.Context, vars map[string]string) (string, error)
}

// Runner is the pair of pipeline stages. Both *Pipeline and *Cached
// implement it.
type Runner interface {
	SelectCube(ctx context.Context, question string) (string, error)
	GenerateQuery(ctx context.Context, question, cube string) (string, error)
}

// Result of a combined run.
type Result struct {
	Cube  string `json:"cube"`
	Query string `json:"query"`
}

// Pipeline is stateless per request and safe for concurrent use.
type Pipeline struct {
	catalog    Catalog
	selection  Invoker
	generation Invoker
	log        logger.LoggerInstance
}

// NewPipelineParams holds the collaborators of a Pipeline.
type NewPipelineParams struct {
	Catalog    Catalog
	Selection  Invoker
	Generation Invoker
	Logger     logger.LoggerInstance
}

func NewPipeline(params NewPipelineParams) *Pipeline {
	log := params.Logger
	if log == nil {
		log = logger.Nop{}
	}
	return &Pipeline{
		catalog:    params.Catalog,
		selection:  params.Selection,
		generation: params.Generation,
		log:        log,
	}
}

// SelectCube asks the model which cube of the current catalog answers
// question and returns the first identifier in its answer.
func (p *Pipeline) SelectCube(ctx context.Context, question string) (cubeID string, err error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	defer observe("select", time.Now(), &err)

	cubes, err := p.catalog.FetchCatalogDescriptions(ctx)
	if err != nil {
		return "", upstream(ServiceSPARQL, "fetch catalog", err)
	}

	text, err := p.selection.Invoke(ctx, map[string]string{
		"cubes":    cubes,
		"question": question,
	})
	if err != nil {
		return "", upstream(ServiceLLM, chain.SelectionChainName, err)
	}
	p.log.Info("Cube selection response", "response", text)

	ids := cube.ExtractIdentifiers(text)
	if len(ids) == 0 {
		p.log.Warn("Failed at parsing cube id from response")
		return "", &NoCubeSelectedError{Response: text}
	}

	return ids[0], nil
}

// GenerateQuery has the model write a SPARQL query for question against
// cubeID. The response is returned unmodified.
func (p *Pipeline) GenerateQuery(ctx context.Context, question, cubeID string) (query string, err error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if strings.TrimSpace(cubeID) == "" {
		return "", ErrEmptyCube
	}
	defer observe("generate", time.Now(), &err)

	var sample, dimensions string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sample, err = p.catalog.FetchCubeSample(gctx, cubeID)
		if err != nil {
			return upstream(ServiceSPARQL, "fetch cube sample", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		dimensions, err = p.catalog.FetchDimensionLabels(gctx, cubeID)
		if err != nil {
			return upstream(ServiceSPARQL, "fetch dimension labels", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	text, err := p.generation.Invoke(ctx, map[string]string{
		"cube_and_sample":     sample,
		"dimensions_triplets": dimensions,
		"cube":                cubeID,
		"question":            question,
	})
	if err != nil {
		return "", upstream(ServiceLLM, chain.GenerationChainName, err)
	}
	p.log.Info("Query generation response", "cube", cubeID, "response", text)

	return text, nil
}

// SelectAndGenerate runs both stages through p.
func (p *Pipeline) SelectAndGenerate(ctx context.Context, question string) (Result, error) {
	return SelectAndGenerate(ctx, p, question)
}

// SelectAndGenerate selects a cube for question and generates a query
// against it. Generation is not attempted when selection fails.
func SelectAndGenerate(ctx context.Context, r Runner, question string) (Result, error) {
	cubeID, err := r.SelectCube(ctx, question)
	if err != nil {
		return Result{}, err
	}

	query, err := r.GenerateQuery(ctx, question, cubeID)
	if err != nil {
		return Result{Cube: cubeID}, err
	}

	return Result{Cube: cubeID, Query: query}, nil
}

func observe(stage string, start time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = "error"
	}
	stageDuration.WithLabelValues(stage, outcome).Observe(time.Since(start).Seconds())
}
