package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `a.id, a.admin_id, COALESCE(u.email, ''), a.action_type,
	a.target_type, a.target_id, a.details, a.created_at`

const activityFrom = ` FROM activity_log a LEFT JOIN users u ON u.id = a.admin_id`

func scanActivityRows(rows pgx.Rows) ([]entity.ActivityLog, error) {
	defer rows.Close()
	var logs []entity.ActivityLog
	for rows.Next() {
		e := entity.ActivityLog{}
		if err := rows.Scan(&e.ID, &e.AdminID, &e.AdminEmail, &e.ActionType,
			&e.TargetType, &e.TargetID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

func (r *ActivityRepository) List(ctx context.Context, f repository.ActivityFilter) ([]entity.ActivityLog, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.AdminID != "" {
		args = append(args, f.AdminID)
		where += " AND a.admin_id = $" + strconv.Itoa(len(args))
	}
	if f.ActionType != "" {
		args = append(args, f.ActionType)
		where += " AND a.action_type = $" + strconv.Itoa(len(args))
	}
	if f.TargetType != "" {
		args = append(args, f.TargetType)
		where += " AND a.target_type = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*)"+activityFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(f.Page, f.PerPage)
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.pool.Query(ctx, "SELECT "+activityColumns+activityFrom+where+
		" ORDER BY a.id DESC LIMIT $"+strconv.Itoa(len(args)-1)+" OFFSET $"+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	logs, err := scanActivityRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *ActivityRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]entity.ActivityLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, "SELECT "+activityColumns+activityFrom+
		" WHERE a.id > $1 ORDER BY a.id ASC LIMIT $2", afterID, limit)
	if err != nil {
		return nil, err
	}
	return scanActivityRows(rows)
}

func (r *ActivityRepository) LatestID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(max(id), 0) FROM activity_log`).Scan(&id)
	return id, err
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
