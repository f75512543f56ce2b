package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/trucker-logbook/internal/repo"
)

// AdminService holds destructive maintenance operations. It is wired only
// into cmd/dbtool, never into the HTTP API.
type AdminService struct {
	admin repo.AdminRepo
	log   *slog.Logger
}

// NewAdminService constructs an AdminService. A nil log uses slog.Default().
func NewAdminService(admin repo.AdminRepo, log *slog.Logger) *AdminService {
	if log == nil {
		log = slog.Default()
	}
	return &AdminService{admin: admin, log: log}
}

// ResetAllData deletes every trip, configuration, log entry, and daily summary.
func (s *AdminService) ResetAllData(ctx context.Context) error {
	if err := s.admin.ResetAll(ctx); err != nil {
		return fmt.Errorf("service.AdminService.ResetAllData: %w", err)
	}
	s.log.WarnContext(ctx, "all logbook data deleted")
	return nil
}
