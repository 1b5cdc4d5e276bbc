package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobQueued     JobStatus = "QUEUED"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
	JobCancelled  JobStatus = "CANCELLED"
)

// Job is one bulk synchronization run. Counters are only ever mutated with
// SQL-side increments so processed == succeeded + failed holds under
// concurrent writers.
type Job struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopDomain string    `json:"shop_domain" gorm:"not null;index"`
	Status     JobStatus `json:"status" gorm:"default:QUEUED;index"`
	Total      int       `json:"total"`
	Processed  int       `json:"processed"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Options    string    `json:"options"`
	Error      *string   `json:"error"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

// Cancellable reports whether an explicit cancel request is a legal
// transition from the job's current status.
func (j *Job) Cancellable() bool {
	return j.Status == JobQueued || j.Status == JobProcessing
}

// Terminal reports whether the job has reached a final status.
func (j *Job) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed || j.Status == JobCancelled
}
