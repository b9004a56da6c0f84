// Package jobs hosts the background worker and its task definitions.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuthzIntegrityScan checks persisted role assignments against the
	// registry.
	TaskAuthzIntegrityScan = "authz:integrity_scan"
)

// IntegrityScanPayload parametrizes an integrity scan run.
type IntegrityScanPayload struct {
	// DeactivateUnknown marks assignments with unknown roles inactive
	// instead of only reporting them.
	DeactivateUnknown bool `json:"deactivate_unknown"`
}

// NewAuthzIntegrityScanTask constructs an integrity scan task.
func NewAuthzIntegrityScanTask(payload IntegrityScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthzIntegrityScan, data), nil
}
