package worker

// alert_worker.go
// Processes capacity alert jobs from QueueAlerts: when an entry fills the
// last slot of an establishment, the contact address gets a notification
// so staff can manage the door. SMTP delivery runs through the circuit
// breaker so a dead mail host fast-fails instead of blocking the pool.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AmpolStack/AccessControlPlatform/internal/infra"
)

// CapacityAlertWorker sends full-capacity notifications via SMTP.
type CapacityAlertWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
}

func NewCapacityAlertWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker) *CapacityAlertWorker {
	return &CapacityAlertWorker{mailer: mailer, breaker: breaker}
}

// Process sends the alert email for one job.
func (w *CapacityAlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload CapacityAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alert_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().
			Uint("establishment_id", payload.EstablishmentID).
			Msg("alert_worker: establishment has no contact email — skipping")
		return nil
	}

	subject := fmt.Sprintf("%s is at full capacity", payload.EstablishmentName)
	body := fmt.Sprintf(
		"Establishment %q has reached its maximum capacity (%d/%d occupants).\n"+
			"New entries will be rejected until someone exits.\n",
		payload.EstablishmentName, payload.Occupancy, payload.MaxCapacity)

	err := w.breaker.Execute(func() error {
		return w.mailer.SendAlert(payload.ToEmail, subject, body)
	})
	if err != nil {
		return fmt.Errorf("alert_worker: send to %s: %w", payload.ToEmail, err)
	}

	log.Info().
		Str("to", payload.ToEmail).
		Uint("establishment_id", payload.EstablishmentID).
		Msg("alert_worker: capacity alert sent")
	return nil
}
