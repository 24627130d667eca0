package worker

// alert_worker.go
// Processes alert jobs from QueueAlerts: low stock, deliveries booked in,
// finished stocktakes. Sends the email through the SMTP circuit breaker and
// requeues on failure, dead-lettering after MaxAlertAttempts.

import (
	"context"
	"encoding/json"

	"github.com/AhmadAdewumi/inventro/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const MaxAlertAttempts = 3

// AlertJobPayload is the job envelope sent to QueueAlerts.
type AlertJobPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AlertWorker delivers alert emails to the configured recipient.
type AlertWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
	to     string
}

func NewAlertWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, to string) *AlertWorker {
	return &AlertWorker{mailer: mailer, cb: cb, rdb: rdb, to: to}
}

func (w *AlertWorker) Process(ctx context.Context, job Job) {
	var payload AlertJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("alert_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Warn().Msg("alert_worker: no ALERT_EMAIL configured — dropping alert")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendAlert(w.to, payload.Subject, payload.Body)
	})
	if err == nil {
		log.Info().Str("subject", payload.Subject).Msg("alert_worker: alert sent")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAlertAttempts {
		SendToDLQ(ctx, w.rdb, QueueAlerts, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}

	encoded, marshalErr := json.Marshal(job)
	if marshalErr != nil {
		log.Error().Err(marshalErr).Msg("alert_worker: failed to re-marshal job")
		return
	}
	if pushErr := w.rdb.LPush(ctx, QueueAlerts, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Msg("alert_worker: failed to requeue job")
		return
	}
	log.Warn().
		Err(err).
		Int("attempts", job.Attempts).
		Str("subject", payload.Subject).
		Msg("alert_worker: send failed, requeued")
}
