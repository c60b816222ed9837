package mysql

import (
	"context"
	"database/sql"
	"time"

	"auction-marketplace/internal/domain"
)

type MySQLTransferJobRepository struct {
	db *sql.DB
}

func NewMySQLTransferJobRepository(db *sql.DB) *MySQLTransferJobRepository {
	return &MySQLTransferJobRepository{db: db}
}

func (r *MySQLTransferJobRepository) CreateJob(ctx context.Context, job *domain.TransferJob) error {
	query := `
        INSERT INTO transfer_jobs (id, item_id, item_name, seller, run_at, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.ItemID, job.ItemName, job.Seller,
		job.RunAt, string(job.Status), job.CreatedAt)
	return err
}

func (r *MySQLTransferJobRepository) GetDueJobs(ctx context.Context, before time.Time) ([]*domain.TransferJob, error) {
	query := `
        SELECT id, item_id, item_name, seller, run_at, status, created_at
        FROM transfer_jobs
        WHERE status = ? AND run_at <= ?
    `

	rows, err := r.db.QueryContext(ctx, query, string(domain.JobPending), before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.TransferJob
	for rows.Next() {
		var job domain.TransferJob
		var status string

		err := rows.Scan(&job.ID, &job.ItemID, &job.ItemName, &job.Seller,
			&job.RunAt, &status, &job.CreatedAt)
		if err != nil {
			return nil, err
		}

		job.Status = domain.JobStatus(status)
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

func (r *MySQLTransferJobRepository) MarkExecuted(ctx context.Context, jobID string) error {
	query := `UPDATE transfer_jobs SET status = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(domain.JobExecuted), jobID)
	return err
}
