// Package pipeline sequences the playbook document stages and tags every
// failure with the stage that produced it.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/include"
	"weftworks/weft/pkg/playbook/node"
	"weftworks/weft/pkg/playbook/validate"
	"weftworks/weft/pkg/playbook/vars"
)

// Stage identifies one of the four ordered pipeline phases.
type Stage string

const (
	StageParsing    Stage = "parsing"
	StageVariables  Stage = "variable-resolution"
	StageIncludes   Stage = "include-processing"
	StageValidation Stage = "structural-validation"
)

// Stages lists the phases in execution order.
var Stages = []Stage{StageParsing, StageVariables, StageIncludes, StageValidation}

// Result is the tagged outcome of a pipeline run: either a resolved document
// or a failure attributed to exactly one stage. Constructors keep the two
// variants mutually exclusive; callers check OK().
type Result struct {
	Doc   any
	Stage Stage
	Err   error

	// Includes counts the include directives spliced during the run.
	Includes int
}

// Succeed wraps a resolved document.
func Succeed(doc any) Result {
	return Result{Doc: doc}
}

// Fail wraps a stage-tagged failure.
func Fail(stage Stage, err error) Result {
	return Result{Stage: stage, Err: err}
}

// OK reports whether the run produced a resolved document.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the failure message, empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Pipeline runs the staged transforms over playbook text.
// Order is load-bearing: variables are substituted before includes so an
// include path may itself carry a placeholder, and included content is
// checked static so it never picks up the includer's variable scope.
type Pipeline struct {
	logger         *slog.Logger
	maxIncludeSize int64
}

// New creates a pipeline. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// WithMaxIncludeSize caps the size of files spliced by include directives.
// Zero or negative keeps the resolver's default.
func (p *Pipeline) WithMaxIncludeSize(size int64) *Pipeline {
	p.maxIncludeSize = size
	return p
}

// Run processes raw playbook text against the given environment.
// Include resolution is anchored at the source file's containing directory;
// an empty sourcePath anchors at the current directory.
func (p *Pipeline) Run(data []byte, sourcePath string, env vars.Environment) Result {
	baseDir := "."
	if sourcePath != "" {
		baseDir = filepath.Dir(sourcePath)
	}
	return p.run(data, sourcePath, baseDir, env)
}

// RunFile reads and processes a playbook file.
func (p *Pipeline) RunFile(path string, env vars.Environment) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fail(StageParsing, &pbErrors.Error{
			Kind:    pbErrors.KindIO,
			Message: fmt.Sprintf("Failed to read file: %v", err),
			Location: pbErrors.Location{
				File: path,
			},
		})
	}
	return p.run(data, path, filepath.Dir(path), env)
}

func (p *Pipeline) run(data []byte, sourcePath, baseDir string, env vars.Environment) Result {
	doc, err := node.Parse(data, sourcePath)
	if err != nil {
		return p.fail(StageParsing, sourcePath, err)
	}

	interpolated, err := vars.Interpolate(doc, env)
	if err != nil {
		return p.fail(StageVariables, sourcePath, err)
	}

	resolver := include.NewResolver(baseDir)
	if p.maxIncludeSize > 0 {
		resolver.WithMaxFileSize(p.maxIncludeSize)
	}
	spliced, err := resolver.Process(interpolated)
	if err != nil {
		return p.fail(StageIncludes, sourcePath, err)
	}

	if err := validate.Static(spliced); err != nil {
		return p.fail(StageValidation, sourcePath, err)
	}

	p.logger.Debug("playbook resolved",
		"path", sourcePath,
		"bytes", len(data),
		"includes", resolver.Resolved(),
	)
	res := Succeed(spliced)
	res.Includes = resolver.Resolved()
	return res
}

func (p *Pipeline) fail(stage Stage, sourcePath string, err error) Result {
	err = anchor(err, sourcePath)
	p.logger.Debug("stage failed",
		"stage", stage,
		"path", sourcePath,
		"error", err,
	)
	return Fail(stage, err)
}

// anchor attaches whole-document location to errors that carry none, so
// diagnostics always have a file to point at even with degraded precision.
func anchor(err error, sourcePath string) error {
	if sourcePath == "" {
		return err
	}
	var pbErr *pbErrors.Error
	if errors.As(err, &pbErr) && pbErr.Location.File == "" {
		return pbErr.At(pbErrors.Location{File: sourcePath, Line: 1})
	}
	return err
}
