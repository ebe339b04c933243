package assetc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

func queueJobs(ctx context.Context, jobs []Job) (<-chan Job, <-chan error) {
	out := make(chan Job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, j := range jobs {
			select {
			case out <- j:
			case <-ctx.Done():
				errc <- errors.New("build cancelled")
				return
			}
		}
	}()
	return out, errc
}

func (c *Compiler) jobWorker(ctx context.Context, in <-chan Job) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)

		// Each worker has its own image cache
		w := c.clone()
		for j := range in {
			if ctx.Err() != nil {
				return
			}
			w.logger.Debug("starting job", zap.String("command", j.Command), zap.String("input", j.Input))
			if err := w.Run(j); err != nil {
				errc <- fmt.Errorf("%s %s: %w", j.Command, j.Input, err)
				return
			}
		}
	}()
	return errc
}

// waitForPipeline returns the first error, cancelling the rest of the
// pipeline, but only once every stage has finished.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Build runs every job of m, spread over the configured number of workers.
// The first failing job stops the build. Jobs already running are allowed
// to finish before Build returns.
func (c *Compiler) Build(ctx context.Context, m *Manifest) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errcList []<-chan error

	jobs, errc := queueJobs(ctx, m.Jobs)
	errcList = append(errcList, errc)

	for i := 0; i < c.cfg.Build.Workers; i++ {
		errcList = append(errcList, c.jobWorker(ctx, jobs))
	}

	if err := waitForPipeline(cancel, errcList...); err != nil {
		return err
	}

	c.logger.Info("build complete", zap.Int("jobs", len(m.Jobs)))
	return nil
}
