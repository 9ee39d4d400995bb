package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/pkg/metrics"
)

type AuditService struct {
	repo    domain.AuditRepository
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
	entries chan domain.AuditLog
	done    chan struct{}
}

const (
	auditBufferSize = 10_000
	auditBatchSize  = 100
)

func NewAuditService(repo domain.AuditRepository, m *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		metrics: m,
		now:     time.Now,
		entries: make(chan domain.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full, the entry is dropped and a warning is emitted.
func (s *AuditService) LogAsync(_ context.Context, caller Caller, entry AuditEntry) {
	al := domain.AuditLog{
		OccurredAt:   s.now().UTC(),
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		IPAddress:    caller.IP,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Changes:      entry.Changes,
	}

	select {
	case s.entries <- al:
	default:
		if s.metrics != nil {
			s.metrics.AuditBufferDropped.Inc()
		}
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceType),
		)
	}
}

func (s *AuditService) Recent(ctx context.Context, caller Caller, limit int) ([]domain.AuditLog, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.repo.Recent(ctx, limit)
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

// worker drains whatever is buffered into one Append so a burst costs one
// store write instead of one per entry.
func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		batch := []domain.AuditLog{entry}
	drain:
		for len(batch) < auditBatchSize {
			select {
			case next, ok := <-s.entries:
				if !ok {
					break drain
				}
				batch = append(batch, next)
			default:
				break drain
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Append(ctx, batch...); err != nil {
			s.log.Error("failed to persist audit log", zap.Int("entries", len(batch)), zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.AuditEntriesTotal.Add(float64(len(batch)))
		}
		cancel()
	}
}
