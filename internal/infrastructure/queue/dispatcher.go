package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campusunify/campus-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher delivers receipt notifications in the background. Jobs are
// sharded onto a fixed set of workers by recipient address, keeping per-user
// mail ordering. Receipt mail is non-critical: failures are logged, never
// retried.
type MailDispatcher struct {
	workers []chan ports.ReceiptJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.ReceiptJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReceiptJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a receipt job to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(job ports.ReceiptJob) {
	d.workers[d.shardIndex(job.Email)] <- job
}

func (d *MailDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReceiptJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			msg := ports.MailMessage{
				To:      job.Email,
				Subject: "Your CampusUnify order " + job.InternalOrderID,
				Body:    receiptBody(job),
			}
			if err := d.mailer.Send(ctx, msg); err != nil {
				d.log.Error().Err(err).
					Str("order_id", job.InternalOrderID).
					Int("worker_id", id).
					Msg("receipt mail delivery failed")
			}
		}
	}
}

func receiptBody(job ports.ReceiptJob) string {
	return fmt.Sprintf(
		"Hi %s,\n\nYour payment was captured. Order %s covers:\n%s\n\nTotal: INR %.2f\n\nSee you there!\n",
		job.Name,
		job.InternalOrderID,
		"- "+strings.Join(job.EventNames, "\n- "),
		float64(job.TotalAmount)/100,
	)
}
