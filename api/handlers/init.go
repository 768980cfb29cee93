package handlers

import (
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/services"
)

type APIHandlers struct {
	InboundEmail *InboundEmailHandler
	Threads      *ThreadsHandler
	Approvals    *ApprovalsHandler
	Documents    *DocumentsHandler
}

func InitHandlers(r *repository.Repositories, s *services.Services) *APIHandlers {
	return &APIHandlers{
		InboundEmail: NewInboundEmailHandler(r, s),
		Threads:      NewThreadsHandler(r),
		Approvals:    NewApprovalsHandler(r, s),
		Documents:    NewDocumentsHandler(s),
	}
}
