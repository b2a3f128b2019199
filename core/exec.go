package core

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/maepreville/psh/core/parse"
	"github.com/maepreville/psh/core/vos"
)

// UnknownCommandError is reported when a pipeline names a command that
// doesn't resolve. It's returned before any stage runs.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	// Stage is the zero-based position in the pipeline.
	Stage int
	// Command is the name the stage ran.
	Command string
	// ExitCode is the stage's exit code, zero on success.
	ExitCode int
}

// Executor runs parsed pipelines. Stages run concurrently, each in its own
// process context, connected by synchronous pipes.
type Executor struct {
	resolver vos.ProcessResolver
}

func NewExecutor(resolver vos.ProcessResolver) *Executor {
	return &Executor{resolver: resolver}
}

// Run executes every stage of the pipeline and returns one result per stage
// in pipeline order.
//
// All commands are resolved before any stage starts, so an unknown name
// anywhere in the pipeline means nothing runs. After that point failures are
// per-stage: a failed stage reports a non-zero exit code in its result while
// its neighbors run to completion.
func (e *Executor) Run(parentOS vos.VOS, pipeline *parse.Pipeline) ([]StageResult, error) {
	stages := pipeline.Stages
	if len(stages) == 0 {
		return nil, nil
	}

	procs := make([]vos.ProcessFunc, len(stages))
	for i, stage := range stages {
		proc := e.resolver(stage.Command)
		if proc == nil {
			return nil, &UnknownCommandError{Name: stage.Command}
		}
		procs[i] = proc
	}

	// The last stage writes to the terminal unless redirected to a file.
	lastStdout := io.Writer(parentOS.Stdout())
	if pipeline.RedirectPath != "" {
		fd, err := parentOS.OpenFile(pipeline.RedirectPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", pipeline.RedirectPath, err)
		}
		defer fd.Close()
		lastStdout = fd
	}

	// N stages need N-1 pipes. Pipe i connects stage i's stdout to stage
	// i+1's stdin.
	readers := make([]*io.PipeReader, len(stages)-1)
	writers := make([]*io.PipeWriter, len(stages)-1)
	for i := range readers {
		readers[i], writers[i] = io.Pipe()
	}

	results := make([]StageResult, len(stages))

	var wg sync.WaitGroup
	for i, stage := range stages {
		var stdin io.Reader = parentOS.Stdin()
		if i > 0 {
			stdin = readers[i-1]
		}
		var stdout io.Writer = lastStdout
		if i < len(stages)-1 {
			stdout = writers[i]
		}

		stageIO := vos.NewVIOAdapter(stdin, stdout, parentOS.Stderr())

		procOS, err := parentOS.StartProcess(stage.Command, stage.Argv(), &vos.ProcAttr{
			Files: vos.NopCloseVIO(stageIO),
		})
		if err != nil {
			// Undo the wiring; nothing has started yet.
			for _, w := range writers {
				w.Close()
			}
			for _, r := range readers {
				r.Close()
			}
			return nil, err
		}

		wg.Add(1)
		go func(i int, stage parse.Stage, proc vos.ProcessFunc, procOS vos.VOS) {
			defer wg.Done()

			// A stage that finishes closes its ends of the pipes. Closing
			// the write end signals EOF downstream; closing the read end
			// makes further upstream writes fail instead of blocking.
			if i < len(writers) {
				defer writers[i].Close()
			}
			if i > 0 {
				defer readers[i-1].Close()
			}

			exitCode := runStage(proc, procOS)
			results[i] = StageResult{Stage: i, Command: stage.Command, ExitCode: exitCode}
		}(i, stage, procs[i], procOS)
	}

	wg.Wait()
	return results, nil
}

// runStage invokes the process function, converting a panic into a failed
// exit rather than tearing down the whole shell.
func runStage(proc vos.ProcessFunc, procOS vos.VOS) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(procOS.Stderr(), "%s: %v\n", procOS.Args()[0], r)
			exitCode = 1
		}
	}()

	return proc(procOS)
}
