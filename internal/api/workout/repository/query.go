package workoutRepository

const (
	queryUpsertSession = `
		INSERT INTO workout_sessions (
			id,
			exercise_type,
			duration,
			form_quality,
			total_frames,
			completed,
			started_at,
			last_update_at,
			archived_at
		) VALUES (
			:id,
			:exercise_type,
			:duration,
			:form_quality,
			:total_frames,
			:completed,
			:started_at,
			:last_update_at,
			:archived_at
		)
		ON CONFLICT (id) DO UPDATE SET
			exercise_type = EXCLUDED.exercise_type,
			duration = EXCLUDED.duration,
			form_quality = EXCLUDED.form_quality,
			total_frames = EXCLUDED.total_frames,
			completed = EXCLUDED.completed,
			started_at = EXCLUDED.started_at,
			last_update_at = EXCLUDED.last_update_at,
			archived_at = EXCLUDED.archived_at
	`

	queryDeleteIssues = `
		DELETE FROM session_issues
		WHERE session_id = :session_id
	`

	queryInsertIssue = `
		INSERT INTO session_issues (
			session_id,
			sort_order,
			issue,
			occurrences,
			percentage
		) VALUES (
			:session_id,
			:sort_order,
			:issue,
			:occurrences,
			:percentage
		)
	`

	queryGetSessionByID = `
		SELECT
			id,
			exercise_type,
			duration,
			form_quality,
			total_frames,
			completed,
			started_at,
			last_update_at
		FROM workout_sessions
		WHERE id = :id
	`

	queryGetIssuesBySessionID = `
		SELECT
			issue,
			occurrences,
			percentage
		FROM session_issues
		WHERE session_id = :session_id
		ORDER BY sort_order ASC
	`
)
