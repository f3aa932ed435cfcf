package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/mazesearch/internal/ctxlog"
	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileRoot is the top level of a configuration file.
type fileRoot struct {
	Maze    *mazeBlock    `hcl:"maze,block"`
	Search  *searchBlock  `hcl:"search,block"`
	Output  *outputBlock  `hcl:"output,block"`
	Publish *publishBlock `hcl:"publish,block"`
}

type mazeBlock struct {
	Rows       *int      `hcl:"rows,optional"`
	Cols       *int      `hcl:"cols,optional"`
	Sparseness *float64  `hcl:"sparseness,optional"`
	Seed       *int64    `hcl:"seed,optional"`
	Start      *locBlock `hcl:"start,block"`
	Goal       *locBlock `hcl:"goal,block"`
}

type locBlock struct {
	Row int `hcl:"row"`
	Col int `hcl:"col"`
}

type searchBlock struct {
	Algorithms []string `hcl:"algorithms,optional"`
	Heuristic  *string  `hcl:"heuristic,optional"`
	Instrument *bool    `hcl:"instrument,optional"`
}

type outputBlock struct {
	LogDir *string `hcl:"log_dir,optional"`
}

type publishBlock struct {
	URL                string  `hcl:"url"`
	Namespace          *string `hcl:"namespace,optional"`
	Event              *string `hcl:"event,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
	ConnectTimeout     *string `hcl:"connect_timeout,optional"`
}

// Load reads the HCL file at path on top of Default. An empty path returns
// the defaults unchanged.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		logger.Debug("No configuration file given, using defaults.")
		return Default(), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	return Parse(ctx, src, path)
}

// Parse decodes HCL source on top of Default. filename is only used in
// diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing configuration.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	evalCtx, err := evalContext()
	if err != nil {
		return nil, err
	}
	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := Default()
	if err := root.apply(model); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filename, err)
	}
	logger.Debug("Configuration loaded.", "file", filename, "algorithms", model.Algorithms, "instrument", model.Instrument)
	return model, nil
}

// evalContext exposes the environment as the `env` map and a few string and
// number helpers to configuration expressions.
func evalContext() (*hcl.EvalContext, error) {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
			vars[name] = value
		}
	}
	env, err := gocty.ToCtyValue(vars, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("failed to convert environment: %w", err)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
		},
		Functions: map[string]function.Function{
			"lower": stdlib.LowerFunc,
			"upper": stdlib.UpperFunc,
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
		},
	}, nil
}

// apply copies every value present in the file onto model.
func (r *fileRoot) apply(model *Model) error {
	if b := r.Maze; b != nil {
		setIfPresent(&model.Maze.Rows, b.Rows)
		setIfPresent(&model.Maze.Cols, b.Cols)
		setIfPresent(&model.Maze.Sparseness, b.Sparseness)
		if b.Seed != nil {
			if *b.Seed < 0 {
				return fmt.Errorf("seed must not be negative, got %d", *b.Seed)
			}
			seed := uint64(*b.Seed)
			model.Seed = &seed
		}
		if b.Start != nil {
			model.Maze.Start = maze.Loc{Row: b.Start.Row, Col: b.Start.Col}
		}
		if b.Goal != nil {
			model.Maze.Goal = maze.Loc{Row: b.Goal.Row, Col: b.Goal.Col}
		}
	}

	if b := r.Search; b != nil {
		if b.Algorithms != nil {
			algs, err := ParseAlgorithms(b.Algorithms)
			if err != nil {
				return err
			}
			model.Algorithms = algs
		}
		if b.Heuristic != nil {
			model.Heuristic = strings.ToLower(*b.Heuristic)
		}
		setIfPresent(&model.Instrument, b.Instrument)
	}

	if b := r.Output; b != nil {
		setIfPresent(&model.LogDir, b.LogDir)
	}

	if b := r.Publish; b != nil {
		opts := &publish.Options{URL: b.URL, Event: publish.DefaultEvent}
		setIfPresent(&opts.Namespace, b.Namespace)
		setIfPresent(&opts.Event, b.Event)
		setIfPresent(&opts.InsecureSkipVerify, b.InsecureSkipVerify)
		if b.ConnectTimeout != nil {
			d, err := time.ParseDuration(*b.ConnectTimeout)
			if err != nil {
				return fmt.Errorf("publish.connect_timeout: %w", err)
			}
			opts.ConnectTimeout = d
		}
		model.Publish = opts
	}

	return model.Validate()
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
