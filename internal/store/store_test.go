package store

import (
	"testing"

	"esyncify/internal/database"
	"esyncify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.CreateTables(db))
	return New(db)
}

func seedJob(t *testing.T, st *Store, total int) *models.Job {
	t.Helper()
	job, err := st.CreateJob("shop.myshopify.com", total, "{}")
	require.NoError(t, err)
	return job
}

func seedImport(t *testing.T, st *Store, jobID string) *models.Import {
	t.Helper()
	imp := &models.Import{
		ShopDomain:  "shop.myshopify.com",
		JobID:       &jobID,
		Status:      models.ImportPending,
		ProductData: `{"title":"T"}`,
		Title:       "T",
		SKU:         "SKU-1",
	}
	require.NoError(t, st.CreateImport(imp))
	return imp
}

func TestCreateJobDefaults(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 3)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.JobQueued, job.Status)
	assert.Equal(t, 3, job.Total)
	assert.Zero(t, job.Processed)

	// Reading back exercises timestamp scanning against the raw-SQL schema.
	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetJobNotFound(t *testing.T) {
	st := newTestStore(t)
	job, err := st.GetJob("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestClaimJobIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)

	require.NoError(t, st.ClaimJob(job.ID))
	require.NoError(t, st.ClaimJob(job.ID))

	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobProcessing, got.Status)
}

func TestClaimJobLeavesTerminalStatusAlone(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)
	require.NoError(t, st.CompleteJob(job.ID))

	require.NoError(t, st.ClaimJob(job.ID))

	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, got.Status)
}

func TestCancelJob(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)

	cancelled, err := st.CancelJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCancelled, cancelled.Status)
}

func TestCancelJobRejectsTerminalStatus(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)
	require.NoError(t, st.CompleteJob(job.ID))

	_, err := st.CancelJob(job.ID)
	var notCancellable *NotCancellableError
	require.ErrorAs(t, err, &notCancellable)
	assert.Equal(t, models.JobCompleted, notCancellable.Status)
	assert.Equal(t, "Cannot cancel job with status 'COMPLETED'.", err.Error())
}

func TestCompleteJobDoesNotOverwriteTerminalStatus(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)
	_, err := st.CancelJob(job.ID)
	require.NoError(t, err)

	require.NoError(t, st.CompleteJob(job.ID))
	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCancelled, got.Status)
}

func TestFailJobDoesNotOverwriteTerminalStatus(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)
	require.NoError(t, st.CompleteJob(job.ID))

	require.NoError(t, st.FailJob(job.ID, "late failure"))
	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, got.Status)
	assert.Nil(t, got.Error)
}

func TestCompleteImportBumpsCounters(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 3)
	first := seedImport(t, st, job.ID)
	second := seedImport(t, st, job.ID)
	third := seedImport(t, st, job.ID)

	transitioned, err := st.CompleteImport(first, "10001", models.ActionCreated)
	require.NoError(t, err)
	assert.True(t, transitioned)

	transitioned, err = st.CompleteImport(second, "10002", models.ActionUpdated)
	require.NoError(t, err)
	assert.True(t, transitioned)

	transitioned, err = st.FailImport(third, "HTTP 422: unprocessable")
	require.NoError(t, err)
	assert.True(t, transitioned)

	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Processed)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, got.Processed, got.Succeeded+got.Failed)

	imports, err := st.ImportsForJob(job.ID)
	require.NoError(t, err)
	require.Len(t, imports, 3)
	for _, imp := range imports {
		switch imp.ID {
		case third.ID:
			assert.Equal(t, models.ImportFailed, imp.Status)
			assert.Equal(t, models.ActionFailed, imp.Action)
			require.NotNil(t, imp.Error)
			assert.Equal(t, "HTTP 422: unprocessable", *imp.Error)
		default:
			assert.Equal(t, models.ImportSuccess, imp.Status)
			require.NotNil(t, imp.ShopifyProductID)
		}
	}
}

func TestCompleteImportIsExactlyOnce(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 1)
	imp := seedImport(t, st, job.ID)

	transitioned, err := st.CompleteImport(imp, "10001", models.ActionCreated)
	require.NoError(t, err)
	assert.True(t, transitioned)

	// A second settle attempt finds no PENDING row and must not double-count.
	transitioned, err = st.CompleteImport(imp, "10001", models.ActionCreated)
	require.NoError(t, err)
	assert.False(t, transitioned)

	transitioned, err = st.FailImport(imp, "late failure")
	require.NoError(t, err)
	assert.False(t, transitioned)

	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Processed)
	assert.Equal(t, 1, got.Succeeded)
	assert.Zero(t, got.Failed)
}

func TestPendingImportsAndCount(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 3)
	imp := seedImport(t, st, job.ID)
	seedImport(t, st, job.ID)
	seedImport(t, st, job.ID)

	count, err := st.PendingCount(job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	batch, err := st.PendingImports(job.ID, 2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	_, err = st.CompleteImport(imp, "10001", models.ActionCreated)
	require.NoError(t, err)

	count, err = st.PendingCount(job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestOldestRunnableJob(t *testing.T) {
	st := newTestStore(t)
	none, err := st.OldestRunnableJob()
	require.NoError(t, err)
	assert.Nil(t, none)

	done := seedJob(t, st, 1)
	require.NoError(t, st.CompleteJob(done.ID))
	queued := seedJob(t, st, 1)

	got, err := st.OldestRunnableJob()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, queued.ID, got.ID)
}

func TestCompleteJobIfDone(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 2)
	imp := seedImport(t, st, job.ID)

	_, err := st.CompleteImport(imp, "10001", models.ActionCreated)
	require.NoError(t, err)

	// One of two processed: not done yet.
	done, err := st.CompleteJobIfDone(job.ID)
	require.NoError(t, err)
	assert.False(t, done)
	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobQueued, got.Status)

	second := seedImport(t, st, job.ID)
	_, err = st.FailImport(second, "boom")
	require.NoError(t, err)

	done, err = st.CompleteJobIfDone(job.ID)
	require.NoError(t, err)
	assert.True(t, done)
	got, err = st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, got.Status)
}

func TestCompleteJobIfDoneSkipsTerminalJobs(t *testing.T) {
	st := newTestStore(t)
	job := seedJob(t, st, 0)
	_, err := st.CancelJob(job.ID)
	require.NoError(t, err)

	done, err := st.CompleteJobIfDone(job.ID)
	require.NoError(t, err)
	assert.False(t, done)
	got, err := st.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobCancelled, got.Status)
}
