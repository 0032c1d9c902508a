package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
)

// appendLog inserts an activity entry inside the caller's transaction.
// Mutating repository methods call this so an admin mutation and its log
// line commit or roll back together.
func appendLog(ctx context.Context, tx pgx.Tx, log *entity.ActivityLog) error {
	if log == nil {
		return nil
	}
	details := log.Details
	if details == nil {
		details = map[string]any{}
	}
	b, err := json.Marshal(details)
	if err != nil {
		return err
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO activity_log (admin_id, action_type, target_type, target_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, log.AdminID, log.ActionType, log.TargetType, log.TargetID, b)
	return row.Scan(&log.ID, &log.CreatedAt)
}
