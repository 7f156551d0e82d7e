package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	QueueAlerts = "jobs:alerts"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CapacityAlertPayload carries everything the alert worker needs so it
// never has to touch the database.
type CapacityAlertPayload struct {
	EstablishmentID   uint   `json:"establishment_id"`
	EstablishmentName string `json:"establishment_name"`
	ToEmail           string `json:"to_email"`
	Occupancy         int    `json:"occupancy"`
	MaxCapacity       int    `json:"max_capacity"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueCapacityAlert pushes a full-capacity notification job to Redis.
func (d *Dispatcher) EnqueueCapacityAlert(ctx context.Context, payload CapacityAlertPayload) error {
	return d.enqueue(ctx, QueueAlerts, "capacity_alert", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
