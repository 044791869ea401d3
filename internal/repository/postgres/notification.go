package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kodwo/sikawallet/internal/models"
)

type NotificationRepo struct {
	DB DBTX
}

const createNotification = `-- name: CreateNotification
INSERT INTO notifications (id, user_id, subject, message, status, read)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, subject, message, status, read, created_at
`

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	id := n.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, createNotification, id, n.UserID, n.Subject, n.Message, n.Status, n.Read)
	notification, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Notification, error) {
		var out models.Notification
		err := row.Scan(&out.ID, &out.UserID, &out.Subject, &out.Message, &out.Status, &out.Read, &out.CreatedAt)
		return out, err
	})
	if err != nil {
		return notification, fmt.Errorf("db error: %w", err)
	}

	return notification, nil
}
