// Package driver is the ambient layer around the compiler core: it
// wires tokenize -> parse -> merge -> validate -> resolve -> emit
// into one invocation, stamping it with a run ID, logging each phase,
// publishing progress events on an optional broker topic, and
// recording an optional compile-run history row. The core phases
// themselves stay pure; driver is the only package that logs,
// publishes, or persists.
package driver

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/borud/broker"
	"github.com/google/uuid"

	"github.com/kilnlang/kiln/internal/compiler/ast"
	"github.com/kilnlang/kiln/internal/compiler/depgraph"
	"github.com/kilnlang/kiln/internal/compiler/emitter"
	kerr "github.com/kilnlang/kiln/internal/compiler/errors"
	"github.com/kilnlang/kiln/internal/compiler/lexer"
	"github.com/kilnlang/kiln/internal/compiler/merge"
	"github.com/kilnlang/kiln/internal/compiler/parser"
	"github.com/kilnlang/kiln/internal/compiler/validate"
	"github.com/kilnlang/kiln/internal/events"
	"github.com/kilnlang/kiln/internal/history"
)

const publishTimeout = 1 * time.Second

// Status codes mirror the entry point contract in §6 of the
// specification.
const (
	StatusOK = iota
	StatusDomainError
	StatusInternalError
	StatusUnknown
)

// ErrorBuffer is the fixed-capacity error payload a nonzero status
// returns: 255 bytes of the failing error's first line, plus a
// terminating NUL.
type ErrorBuffer [256]byte

func newErrorBuffer(msg string) ErrorBuffer {
	var buf ErrorBuffer
	if len(msg) > 255 {
		msg = msg[:255]
	}
	copy(buf[:255], msg)
	return buf
}

// Options configures one compiler invocation. Every field but Sources
// and OutputDir is optional; a nil Emitter skips the emission phase
// (the shape "kiln check" needs), and nil Logger/Broker/History
// disable their respective ambient concern.
type Options struct {
	Sources   map[string]string
	OutputDir string
	Emitter   emitter.Emitter
	Logger    *slog.Logger
	Broker    *broker.Broker
	History   *history.Store
}

// Result is the ambient layer's view of one invocation: the emission
// order (by vertex name), how many declarations it covered, and
// either nil or the error that aborted it.
type Result struct {
	RunID        string
	Status       int
	Order        []string
	Declarations int
	Err          error
}

// Run executes one full compiler invocation end to end.
func Run(opts Options) Result {
	runID := uuid.New().String()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", runID)

	started := time.Now()
	order, declCount, err := compile(runID, opts, logger)
	duration := time.Since(started)

	res := Result{RunID: runID, Err: err, Declarations: declCount}
	if err == nil {
		res.Status = StatusOK
		res.Order = make([]string, len(order))
		for i, v := range order {
			res.Order[i] = v.Name
		}
	} else {
		var domainErr kerr.DomainError
		if errors.As(err, &domainErr) {
			res.Status = StatusDomainError
		} else {
			res.Status = StatusInternalError
		}
	}

	logger.Info("compile finished", "status", res.Status, "duration_ms", duration.Milliseconds(), "declarations", declCount)

	if opts.Broker != nil {
		topic := events.Topic(runID)
		if err != nil {
			_ = opts.Broker.Publish(topic, events.CompileFailed{RunID: runID, Error: err}, publishTimeout)
		} else {
			_ = opts.Broker.Publish(topic, events.CompileSucceeded{RunID: runID, DeclarationCount: declCount}, publishTimeout)
		}
	}

	if opts.History != nil {
		errMsg := ""
		if err != nil {
			errMsg = kerr.FirstLine(err)
		}
		if herr := opts.History.Record(&history.Run{
			RunID:            runID,
			StartedAt:        started,
			DurationMillis:   duration.Milliseconds(),
			Status:           res.Status,
			SourceFileCount:  len(opts.Sources),
			DeclarationCount: declCount,
			ErrorMessage:     errMsg,
		}); herr != nil {
			logger.Warn("failed to record compile history", "error", herr)
		}
	}

	return res
}

// Compile is the literal entry point the specification describes in
// §6: an output directory, a filename->source map, the emitter to
// drive (the out-of-scope collaborator), and the fixed-capacity
// status/error-buffer contract an external caller relies on. It is a
// thin wrapper over Run for callers that want exactly that surface
// (a future FFI boundary, for instance) without the richer Result.
func Compile(outputDir string, sources map[string]string, em emitter.Emitter) (status int, errBuf ErrorBuffer) {
	res := Run(Options{Sources: sources, OutputDir: outputDir, Emitter: em})
	if res.Err == nil {
		return StatusOK, ErrorBuffer{}
	}
	return res.Status, newErrorBuffer(kerr.FirstLine(res.Err))
}

// compile runs the six pipeline phases in order, logging and
// publishing progress around each, and returns the emission order and
// declaration count on success.
func compile(runID string, opts Options, logger *slog.Logger) ([]*depgraph.Vertex, int, error) {
	publish := func(phase events.Phase, completed bool) {
		if opts.Broker == nil {
			return
		}
		topic := events.Topic(runID)
		if completed {
			_ = opts.Broker.Publish(topic, events.PhaseCompleted{RunID: runID, Phase: phase}, publishTimeout)
		} else {
			_ = opts.Broker.Publish(topic, events.PhaseStarted{RunID: runID, Phase: phase}, publishTimeout)
		}
	}

	names := make([]string, 0, len(opts.Sources))
	for name := range opts.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	// Tokenizing has no driver-visible output of its own — ParseFile
	// owns its lexer cursor internally — but it is still a distinct
	// phase per the specification, so it gets its own progress event
	// around a standalone pass over every source file.
	publish(events.PhaseTokenize, false)
	for _, name := range names {
		lexer.Tokenize(name, opts.Sources[name])
	}
	publish(events.PhaseTokenize, true)

	publish(events.PhaseParse, false)
	bags := make([]*ast.FileBag, 0, len(names))
	for _, name := range names {
		bag, err := parser.ParseFile(name, opts.Sources[name])
		if err != nil {
			logger.Error("parse failed", "file", name, "error", err)
			return nil, 0, err
		}
		bags = append(bags, bag)
	}
	publish(events.PhaseParse, true)

	publish(events.PhaseMerge, false)
	unit := merge.Files(bags)
	publish(events.PhaseMerge, true)

	publish(events.PhaseValidate, false)
	if err := validate.Unit(unit); err != nil {
		logger.Error("validation failed", "error", err)
		return nil, 0, err
	}
	publish(events.PhaseValidate, true)

	publish(events.PhaseResolve, false)
	order, err := depgraph.Resolve(unit)
	if err != nil {
		logger.Error("dependency resolution failed", "error", err)
		return nil, 0, err
	}
	publish(events.PhaseResolve, true)

	declCount := len(order)

	if opts.Emitter == nil {
		return order, declCount, nil
	}

	publish(events.PhaseEmit, false)
	for _, v := range order {
		if err := opts.Emitter.Emit(v.Decl, v.Deps); err != nil {
			logger.Error("emission failed", "vertex", v.Name, "error", err)
			return nil, 0, err
		}
	}
	if err := opts.Emitter.Flush(opts.OutputDir); err != nil {
		logger.Error("flush failed", "error", err)
		return nil, 0, err
	}
	publish(events.PhaseEmit, true)

	return order, declCount, nil
}
