package authRepository

import (
	"Perception/internal/entity"
	contextPkg "Perception/pkg/context"
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ActivityDB struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	Activity  string `db:"activity"`
	Timestamp string `db:"timestamp"`
}

func (r *activityRepository) CreateActivity(c context.Context, username, activity string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"username":  username,
		"activity":  activity,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	query, args, err := sqlx.Named(queryCreateActivity, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateActivity")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating activity log")
		return err
	}

	return nil
}

func (r *activityRepository) GetByUsername(c context.Context, username string) ([]entity.ActivityLog, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"username": username,
	}

	query, args, err := sqlx.Named(queryGetActivitiesByUsername, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	rows, err := r.q.QueryxContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername execution err")
		return nil, err
	}
	defer rows.Close()

	activities := make([]entity.ActivityLog, 0)
	for rows.Next() {
		var row ActivityDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("GetByUsername row scan err")
			return nil, err
		}
		activities = append(activities, entity.ActivityLog{
			ID:        row.ID,
			Username:  row.Username,
			Activity:  row.Activity,
			Timestamp: row.Timestamp,
		})
	}

	if err := rows.Err(); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername rows iteration err")
		return nil, err
	}

	return activities, nil
}
