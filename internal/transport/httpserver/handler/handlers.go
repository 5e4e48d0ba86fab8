package handler

import (
	"time"

	membersdomain "github.com/Rishad-007/BRUDF/internal/domain/members"
	"github.com/Rishad-007/BRUDF/pkg/logger"
)

type Handlers struct {
	Members *membersdomain.Service
	log     logger.Logger
	now     func() time.Time
}

func New(members *membersdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Members: members,
		log:     log.With("component", "handler"),
		now:     time.Now,
	}
}
