package constants

// Queries use ? placeholders and are rebound to the driver's bindvar style.
const (
	GetLayoutByUserID = `
	SELECT user_id, column_order, column_visibility, creator_name, creator_url, updated_at
	FROM layout_preferences WHERE user_id = ?
	`

	UpsertLayout = `
	INSERT INTO layout_preferences (user_id, column_order, column_visibility, creator_name, creator_url, updated_at)
	VALUES (:user_id, :column_order, :column_visibility, :creator_name, :creator_url, CURRENT_TIMESTAMP)
	ON CONFLICT (user_id) DO UPDATE SET
		column_order = EXCLUDED.column_order,
		column_visibility = EXCLUDED.column_visibility,
		creator_name = EXCLUDED.creator_name,
		creator_url = EXCLUDED.creator_url,
		updated_at = CURRENT_TIMESTAMP
	`

	DeleteLayoutByUserID = `
	DELETE FROM layout_preferences WHERE user_id = ?
	`

	PingQuery = `SELECT 1`
)
