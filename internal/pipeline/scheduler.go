package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"codeatlas/internal/extract"
	"codeatlas/internal/scan"
)

// Batches smaller than this are always processed sequentially; the fan-out
// overhead isn't worth it.
const parallelThreshold = 4

// maxWorkers is the hard cap on the worker pool.
const maxWorkers = 8

// Options controls how a batch is executed.
type Options struct {
	// Parallel enables the bounded worker pool for large batches.
	Parallel bool
	// Workers overrides the pool size, honored only when smaller than the
	// default cap of min(NumCPU, 8).
	Workers int
}

// Result is the aggregate outcome of one extraction run. For every CodeFile
// descriptor still present on disk, exactly one of Entities/Errors holds an
// entry; vanished files are dropped silently.
type Result struct {
	Entities []extract.EntityRecord
	Errors   []extract.ExtractionError
}

// workerOutcome tags one file's result so sequential and parallel execution
// share a single collection path.
type workerOutcome struct {
	record *extract.EntityRecord
	err    *extract.ExtractionError
}

// Run extracts every CodeFile descriptor under root. The returned sets of
// records and errors are identical regardless of execution mode; entries are
// compacted in descriptor order.
func Run(ctx context.Context, root string, descriptors []scan.FileDescriptor, opts Options) Result {
	files := make([]scan.FileDescriptor, 0, len(descriptors))
	for _, fd := range descriptors {
		if fd.Type == scan.CodeFile {
			files = append(files, fd)
		}
	}

	runLog := logrus.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"root":   root,
		"files":  len(files),
	})

	extractor := extract.NewExtractor()
	outcomes := make([]workerOutcome, len(files))

	if opts.Parallel && len(files) >= parallelThreshold {
		runLog.WithField("workers", workerCount(opts.Workers)).Debug("extracting in parallel")
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(opts.Workers))
		for i, fd := range files {
			if gctx.Err() != nil {
				break
			}
			i, fd := i, fd
			g.Go(func() error {
				outcomes[i] = runWorker(extractor, root, fd)
				return nil
			})
		}
		// workers never return errors; failures are normalized per file
		_ = g.Wait()
	} else {
		runLog.Debug("extracting sequentially")
		for i, fd := range files {
			if ctx.Err() != nil {
				break
			}
			outcomes[i] = runWorker(extractor, root, fd)
		}
	}

	var res Result
	for _, out := range outcomes {
		switch {
		case out.record != nil:
			res.Entities = append(res.Entities, *out.record)
		case out.err != nil:
			res.Errors = append(res.Errors, *out.err)
		}
	}
	runLog.WithFields(logrus.Fields{
		"entities": len(res.Entities),
		"errors":   len(res.Errors),
	}).Debug("extraction complete")
	return res
}

// runWorker isolates one file. A panic at this boundary is normalized into the
// same error shape callers see for in-extractor failures.
func runWorker(extractor *extract.Extractor, root string, fd scan.FileDescriptor) (out workerOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = workerOutcome{err: &extract.ExtractionError{
				File:  fd.Path,
				Cause: fmt.Sprintf("worker failure: %v", r),
			}}
		}
	}()

	rec, xerr, exists := extractor.ExtractFile(root, fd)
	if !exists {
		return workerOutcome{}
	}
	if xerr != nil {
		logrus.WithFields(logrus.Fields{"file": fd.Path, "cause": xerr.Cause}).Debug("extraction error")
		return workerOutcome{err: xerr}
	}
	return workerOutcome{record: rec}
}

func workerCount(override int) int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	if override > 0 && override < n {
		n = override
	}
	if n < 1 {
		n = 1
	}
	return n
}
