package service

import (
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
)

func nowFrom(c domain.Clock) time.Time {
	if c == nil {
		return domain.SystemClock{}.Now()
	}
	return c.Now().UTC()
}
