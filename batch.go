package main

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"sidbench/emu"
)

// runBatch runs jobs in parallel, each with its own device, clock and output
// files. Results are returned in job order, a job that failed to start has a
// nil result. The first error is returned once all jobs are done.
func runBatch(cfg emu.Config, jobs []emu.JobConfig) ([]*emu.Result, error) {
	for i, job := range jobs {
		if job.Name == "" {
			return nil, errors.Errorf("job %d has no name", i)
		}
	}

	results := make([]*emu.Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, job := range jobs {
		g.Go(func() error {
			res, err := runJob(cfg, job, false)
			results[i] = res
			return errors.Wrapf(err, "job %s", job.Name)
		})
	}
	return results, g.Wait()
}
