package usecase

import (
	"context"
	"strconv"
	"time"

	"medical-appointments/internal/delivery/http/middleware"
)

// Clock yields the current instant. Usecases default to time.Now.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// actor returns the caller id for audit entries, nil for unauthenticated calls.
func actor(ctx context.Context) *uint {
	if id, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
