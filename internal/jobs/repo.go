package jobs

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
}

// EnqueueAnalyze schedules an immediate pattern recomputation for one
// (user, state key). A pending job for the same pair is reused instead of
// stacking duplicates; recomputing once covers every append before it runs.
func (r *Repo) EnqueueAnalyze(userID uint64, stateKey string) error {
	var pending int64
	err := r.DB.Model(&Job{}).
		Where("user_id = ? AND type = ? AND status = 'PENDING' AND payload->>'state_key' = ?",
			userID, TypeAnalyzePatterns, stateKey).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	payload, _ := json.Marshal(map[string]any{"state_key": stateKey})
	j := Job{
		UserID:  userID,
		Type:    TypeAnalyzePatterns,
		Payload: payload,
		RunAt:   time.Now(),
		Status:  "PENDING",
	}
	return r.DB.Create(&j).Error
}

// EnqueuePrune schedules the next retention sweep. The worker re-enqueues
// after each run, so at most one pending sweep exists.
func (r *Repo) EnqueuePrune(runAt time.Time) error {
	var pending int64
	err := r.DB.Model(&Job{}).
		Where("type = ? AND status IN ('PENDING','RUNNING')", TypePruneRetention).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return nil
	}

	j := Job{
		UserID:  0,
		Type:    TypePruneRetention,
		Payload: []byte(`{}`),
		RunAt:   runAt,
		Status:  "PENDING",
	}
	return r.DB.Create(&j).Error
}

// Claim one due job atomically using SKIP LOCKED.
// Works on Postgres.
func (r *Repo) Claim(workerID string) (*Job, error) {
	var job Job
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		// requeue stuck RUNNING jobs
		tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`)

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(id uint64) error {
	return r.DB.Exec(`update jobs set status='DONE', updated_at=now() where id=?`, id).Error
}

func (r *Repo) MarkFailed(id uint64, errMsg string) error {
	return r.DB.Exec(`update jobs set status='FAILED', last_error=?, updated_at=now() where id=?`, errMsg, id).Error
}

func (r *Repo) RetryLater(id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.DB.Exec(`
update jobs
set status='PENDING',
    attempts=?,
    run_at=?,
    locked_by=null,
    locked_at=null,
    last_error=?,
    updated_at=now()
where id=?`, attempts, runAt, errMsg, id).Error
}
