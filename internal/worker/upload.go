package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// Uploader sends one image payload to the blob store and returns either
// a public URL or a local placeholder. It never reports an error.
type Uploader interface {
	Upload(ctx context.Context, imageBase64, suggestedName string) string
}

// PhotoStore records the uploaded photo references on the order row.
type PhotoStore interface {
	UpdatePhotoRefs(ctx context.Context, orderID int64, withdrawalURL, consumptionURL *string) (int64, error)
}

// Job is one detached image-upload task for an attested order. Empty
// image fields are skipped.
type Job struct {
	OrderID          int64
	WithdrawalImage  string
	ConsumptionImage string
}

// UploadPool runs image uploads off the request path. The attestation
// response is sent before these jobs run; failures are logged and never
// retried.
type UploadPool struct {
	size     int
	jobs     chan Job
	uploader Uploader
	store    PhotoStore
}

func NewUploadPool(size int, uploader Uploader, store PhotoStore) *UploadPool {
	if size <= 0 {
		size = 1
	}
	return &UploadPool{
		size:     size,
		jobs:     make(chan Job, size*2),
		uploader: uploader,
		store:    store,
	}
}

// Start launches the worker goroutines. They drain until ctx is canceled.
func (p *UploadPool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.worker(ctx, i)
	}
}

func (p *UploadPool) worker(ctx context.Context, id int) {
	slog.Info("upload worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			slog.Info("upload worker stopped", "worker", id)
			return
		case job := <-p.jobs:
			p.process(ctx, job)
		}
	}
}

// Dispatch queues a job without blocking. When the queue is full the job
// is dropped: the upload channel is best-effort and must never hold up
// an attestation response.
func (p *UploadPool) Dispatch(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		slog.Warn("upload queue full, dropping job", "order", job.OrderID)
		return false
	}
}

// Jobs exposes the queue for tests.
func (p *UploadPool) Jobs() chan Job {
	return p.jobs
}

func (p *UploadPool) process(ctx context.Context, job Job) {
	var withdrawalURL, consumptionURL *string

	if job.WithdrawalImage != "" {
		ref := p.uploader.Upload(ctx, job.WithdrawalImage, fmt.Sprintf("retirada_pedido_%d.jpg", job.OrderID))
		withdrawalURL = &ref
	}
	if job.ConsumptionImage != "" {
		ref := p.uploader.Upload(ctx, job.ConsumptionImage, fmt.Sprintf("consumo_pedido_%d.jpg", job.OrderID))
		consumptionURL = &ref
	}

	if withdrawalURL == nil && consumptionURL == nil {
		return
	}

	affected, err := p.store.UpdatePhotoRefs(ctx, job.OrderID, withdrawalURL, consumptionURL)
	if err != nil {
		slog.Error("photo reference update failed", "order", job.OrderID, "error", err)
		return
	}
	if affected == 0 {
		slog.Warn("photo reference update matched no order", "order", job.OrderID)
		return
	}
	slog.Info("photo references recorded", "order", job.OrderID)
}
