package authRepository

const (
	queryCreateUser = `
INSERT INTO users (username, password, created_at)
VALUES (:username, :password, :created_at)`

	queryGetByUsername = `
SELECT username, password, created_at
FROM users
    WHERE username = :username`

	queryDeleteUser = `
DELETE FROM users
WHERE username = :username`

	queryCreateActivity = `
INSERT INTO activity_logs (username, activity, timestamp)
VALUES (:username, :activity, :timestamp)`

	queryGetActivitiesByUsername = `
SELECT id, username, activity, timestamp
FROM activity_logs
    WHERE username = :username
ORDER BY id ASC`
)
