package workout

import "github.com/AChakka/LiftMate/pkg/response"

var (
	ErrSessionNotFound  = response.NewError(404, "Session not found")
	ErrSessionEnded     = response.NewError(409, "session has already ended")
	ErrInvalidSessionID = response.NewError(400, "invalid session id")
	ErrArchiveSession   = response.NewError(500, "failed to archive session")
)
