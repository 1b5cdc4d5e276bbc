package store

import (
	"errors"
	"fmt"

	"esyncify/internal/models"

	"gorm.io/gorm"
)

// NotCancellableError is returned when a cancel request arrives for a job
// that already reached a terminal status. Mapped to a client error, never a
// crash.
type NotCancellableError struct {
	Status models.JobStatus
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("Cannot cancel job with status '%s'.", e.Status)
}

// runnableStatuses are the non-terminal job statuses. Status transitions
// only ever move from these toward a terminal state.
var runnableStatuses = []models.JobStatus{models.JobQueued, models.JobProcessing}

// Store owns all reads and writes of the job/import ledger. Counter
// mutations are SQL-side increments so concurrent writers (a worker racing
// a synchronous single-item call) cannot lose updates.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateJob(shopDomain string, total int, options string) (*models.Job, error) {
	job := &models.Job{
		ShopDomain: shopDomain,
		Status:     models.JobQueued,
		Total:      total,
		Options:    options,
	}
	if err := s.db.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (s *Store) GetJob(id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// OldestRunnableJob returns the oldest job still holding pending work, or
// nil when the queue is drained.
func (s *Store) OldestRunnableJob() (*models.Job, error) {
	var job models.Job
	err := s.db.
		Where("status IN ?", runnableStatuses).
		Order("created_at ASC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ClaimJob moves a queued job to PROCESSING. Idempotent: a job already
// PROCESSING stays put.
func (s *Store) ClaimJob(id string) error {
	return s.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobQueued).
		Update("status", models.JobProcessing).Error
}

// CompleteJob marks the job done. Terminal statuses are never overwritten:
// a cancel that lands between the worker's last record and its completion
// check must stick.
func (s *Store) CompleteJob(id string) error {
	return s.db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, runnableStatuses).
		Update("status", models.JobCompleted).Error
}

// FailJob marks the whole job failed, e.g. when the shop credential cannot
// be loaded. Individual import failures never fail the job. Same terminal
// guard as CompleteJob.
func (s *Store) FailJob(id, message string) error {
	return s.db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, runnableStatuses).
		Updates(map[string]any{"status": models.JobFailed, "error": message}).Error
}

// CancelJob transitions a QUEUED or PROCESSING job to CANCELLED. Any other
// status yields NotCancellableError. Remaining imports keep their
// last-known state.
func (s *Store) CancelJob(id string) (*models.Job, error) {
	job, err := s.GetJob(id)
	if err != nil || job == nil {
		return nil, err
	}
	if !job.Cancellable() {
		return nil, &NotCancellableError{Status: job.Status}
	}
	if err := s.db.Model(job).Update("status", models.JobCancelled).Error; err != nil {
		return nil, err
	}
	job.Status = models.JobCancelled
	return job, nil
}

func (s *Store) CreateImports(imports []*models.Import) error {
	if len(imports) == 0 {
		return nil
	}
	if err := s.db.Create(imports).Error; err != nil {
		return fmt.Errorf("failed to create imports: %w", err)
	}
	return nil
}

func (s *Store) CreateImport(imp *models.Import) error {
	return s.db.Create(imp).Error
}

func (s *Store) ImportsForJob(jobID string) ([]models.Import, error) {
	var imports []models.Import
	err := s.db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&imports).Error
	return imports, err
}

// PendingImports pulls up to limit PENDING imports for a job, oldest first.
func (s *Store) PendingImports(jobID string, limit int) ([]models.Import, error) {
	var imports []models.Import
	err := s.db.
		Where("job_id = ? AND status = ?", jobID, models.ImportPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&imports).Error
	return imports, err
}

func (s *Store) PendingCount(jobID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Import{}).
		Where("job_id = ? AND status = ?", jobID, models.ImportPending).
		Count(&count).Error
	return count, err
}

// CompleteImport records a successful outcome and bumps the owning job's
// succeeded/processed counters in the same transaction. The PENDING guard
// makes the transition exactly-once: a record something else already
// finished is left alone and reported via the return value.
func (s *Store) CompleteImport(imp *models.Import, shopifyProductID, action string) (bool, error) {
	transitioned := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Import{}).
			Where("id = ? AND status = ?", imp.ID, models.ImportPending).
			Updates(map[string]any{
				"status":             models.ImportSuccess,
				"shopify_product_id": shopifyProductID,
				"action":             action,
				"error":              nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		transitioned = true
		if imp.JobID != nil {
			return incrementCounters(tx, *imp.JobID, true)
		}
		return nil
	})
	return transitioned, err
}

// FailImport records a failed outcome with its error payload and bumps
// failed/processed. Same exactly-once guard as CompleteImport.
func (s *Store) FailImport(imp *models.Import, message string) (bool, error) {
	transitioned := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Import{}).
			Where("id = ? AND status = ?", imp.ID, models.ImportPending).
			Updates(map[string]any{
				"status": models.ImportFailed,
				"action": models.ActionFailed,
				"error":  message,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		transitioned = true
		if imp.JobID != nil {
			return incrementCounters(tx, *imp.JobID, false)
		}
		return nil
	})
	return transitioned, err
}

// IncrementJobCounters bumps the job counters for an import that was
// recorded terminal at creation time (the synchronous single-item path).
func (s *Store) IncrementJobCounters(jobID string, success bool) error {
	return incrementCounters(s.db, jobID, success)
}

func incrementCounters(tx *gorm.DB, jobID string, success bool) error {
	outcome := "failed"
	if success {
		outcome = "succeeded"
	}
	return tx.Model(&models.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"processed": gorm.Expr("processed + 1"),
			outcome:     gorm.Expr(outcome + " + 1"),
		}).Error
}

// CompleteJobIfDone marks the job COMPLETED once its processed counter has
// reached the total, reporting whether it did. Used by the synchronous
// path; the worker uses the pending-imports check instead.
func (s *Store) CompleteJobIfDone(jobID string) (bool, error) {
	job, err := s.GetJob(jobID)
	if err != nil || job == nil {
		return false, err
	}
	if job.Terminal() || job.Processed < job.Total {
		return false, nil
	}
	if err := s.CompleteJob(jobID); err != nil {
		return false, err
	}
	return true, nil
}
