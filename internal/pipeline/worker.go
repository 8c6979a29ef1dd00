package pipeline

import (
	"context"
	"log/slog"
)

// Worker outlines the documents of queued jobs.
type Worker struct {
	proc *Processor
	log  *slog.Logger
}

func NewWorker(proc *Processor, log *slog.Logger) *Worker {
	return &Worker{proc: proc, log: log}
}

// Process runs one job to completion or failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "document", job.Filename)

	data := job.FileData()
	job.SetStatus(StatusProcessing, "outline")
	res, err := w.proc.Process(ctx, data, job.Filename)
	if err != nil {
		job.Fail("outline", err)
		return
	}
	job.Complete(res)
	log.Debug("job completed", "headings", len(res.Outline))
}
