// Package execute wires a parsed configuration to the input decoder, the query
// engine and the renderer.
package execute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/jacoelho/hawk/internal/hawk/config"
	"github.com/jacoelho/hawk/internal/hawk/exit"
	"github.com/jacoelho/hawk/internal/hawk/input"
	"github.com/jacoelho/hawk/internal/hawk/output"
	"github.com/jacoelho/hawk/internal/hawk/query"
)

var ErrInterrupted = errors.New("interrupted")

type Runner struct {
	config    *config.Config
	runID     string
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	if cfg == nil {
		return nil, exit.Error("Error creating runner: missing configuration\n")
	}

	return &Runner{
		config:    cfg,
		runID:     uuid.NewString(),
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

// SetInput replaces stdin as the source used when no file is configured.
func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

// logger returns a logfmt logger on the error output when debugging is
// enabled, and a nop logger otherwise.
func (r *Runner) logger() log.Logger {
	if !r.config.Debug {
		return log.NewNopLogger()
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(r.errorWriter()))
	logger = level.NewFilter(logger, level.AllowDebug())
	return log.With(logger, "run", r.runID)
}

// Run evaluates the configured query and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	logger := r.logger()

	if err := r.run(ctx, logger); err != nil {
		level.Debug(logger).Log("msg", "run failed", "err", err)
		res := exit.FromError(err)
		res.Output = r.errorWriter()
		res.Print()
		return res.ExitCode
	}
	return 0
}

func (r *Runner) run(ctx context.Context, logger log.Logger) error {
	raw, err := r.readInput(ctx)
	if err != nil {
		return err
	}

	doc, err := input.Decode(raw)
	if err != nil {
		return err
	}
	level.Debug(logger).Log(
		"msg", "input decoded",
		"source", r.source(),
		"bytes", len(raw),
		"compression", doc.Compressed,
		"format", doc.Format,
	)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}

	engine := query.New(query.WithLogger(logger))
	res, err := engine.Run(doc.Value, r.config.Query)
	if err != nil {
		return err
	}

	if res.Info != nil {
		level.Debug(logger).Log("msg", "rendering info", "values", len(res.Info.Data))
		return output.PrintInfo(r.payloadWriter(), res.Info.Data)
	}

	level.Debug(logger).Log("msg", "rendering", "format", r.config.Format, "values", len(res.Values))
	return output.Render(r.payloadWriter(), res.Values, r.config.Format)
}

func (r *Runner) source() string {
	if r.config.File == "" {
		return "stdin"
	}
	return r.config.File
}

// readInput reads the whole input, giving up when ctx is cancelled first.
func (r *Runner) readInput(ctx context.Context) ([]byte, error) {
	rd := r.input
	if r.config.File != "" {
		f, err := os.Open(r.config.File)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", input.ErrUnsupportedInput, err)
		}
		defer f.Close()
		rd = f
	}
	if rd == nil {
		return nil, fmt.Errorf("%w: no input", input.ErrUnsupportedInput)
	}

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(rd)
		done <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", input.ErrUnsupportedInput, r.source(), res.err)
		}
		return res.data, nil
	}
}
