package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/syncdata"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// SyncPayload carries records pushed by another device
type SyncPayload struct {
	Borrowers []models.Borrower `json:"borrowers"`
	Loans     []models.Loan     `json:"loans"`
	Payments  []models.Payment  `json:"payments"`
	Advances  []models.Advance  `json:"advances"`
}

// SyncResult reports how a merge went
type SyncResult struct {
	Added      map[string]int `json:"added"`
	Reconciled int            `json:"reconciled"`
}

// SyncService merges a remote snapshot into the local store. Conflicts on
// the same ID keep the local record; remote-only records are inserted.
// Derived loan state is recomputed afterwards rather than trusted from
// the remote side.
type SyncService struct {
	repos      *repository.Repositories
	reconciler *ReconciliationService
	auditSvc   *AuditService
}

func NewSyncService(repos *repository.Repositories, reconciler *ReconciliationService, auditSvc *AuditService) *SyncService {
	return &SyncService{repos: repos, reconciler: reconciler, auditSvc: auditSvc}
}

// ApplyRemote merges the payload and runs a reconciliation pass
func (s *SyncService) ApplyRemote(ctx context.Context, payload *SyncPayload, actor uuid.UUID, ip string) (*SyncResult, error) {
	result := &SyncResult{Added: map[string]int{}}

	added, err := s.mergeBorrowers(ctx, payload.Borrowers)
	if err != nil {
		return nil, err
	}
	result.Added["borrowers"] = added

	added, err = s.mergeLoans(ctx, payload.Loans)
	if err != nil {
		return nil, err
	}
	result.Added["loans"] = added

	added, err = s.mergePayments(ctx, payload.Payments)
	if err != nil {
		return nil, err
	}
	result.Added["payments"] = added

	added, err = s.mergeAdvances(ctx, payload.Advances)
	if err != nil {
		return nil, err
	}
	result.Added["advances"] = added

	changed, err := s.reconciler.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconciling after sync: %w", err)
	}
	result.Reconciled = len(changed)

	if err := s.auditSvc.Log(ctx, actor, "SYNC", "portfolio", uuid.Nil,
		fmt.Sprintf("merged remote snapshot, %d loans re-derived", result.Reconciled), ip); err != nil {
		logger.Error("Failed to write audit entry", "actor", actor, "error", err)
	}
	logger.Info("Remote sync applied", "added", result.Added, "reconciled", result.Reconciled)
	return result, nil
}

func (s *SyncService) mergeBorrowers(ctx context.Context, remote []models.Borrower) (int, error) {
	local, err := s.repos.Borrower.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	id := func(b models.Borrower) uuid.UUID { return b.ID }
	merged := syncdata.MergeSlices(local, remote, id)

	existing := make(map[uuid.UUID]struct{}, len(local))
	for _, b := range local {
		existing[b.ID] = struct{}{}
	}
	added := 0
	for i := range merged {
		b := merged[i]
		if _, ok := existing[b.ID]; ok {
			continue
		}
		b.Loans = nil
		b.Advances = nil
		if err := s.repos.Borrower.Create(ctx, &b); err != nil {
			return added, fmt.Errorf("syncing borrower: %w", err)
		}
		added++
	}
	return added, nil
}

func (s *SyncService) mergeLoans(ctx context.Context, remote []models.Loan) (int, error) {
	local, err := s.repos.Loan.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	id := func(l models.Loan) uuid.UUID { return l.ID }
	merged := syncdata.MergeSlices(local, remote, id)

	existing := make(map[uuid.UUID]struct{}, len(local))
	for _, l := range local {
		existing[l.ID] = struct{}{}
	}
	added := 0
	for i := range merged {
		l := merged[i]
		if _, ok := existing[l.ID]; ok {
			continue
		}
		l.Payments = nil
		if err := s.repos.Loan.Create(ctx, &l); err != nil {
			return added, fmt.Errorf("syncing loan: %w", err)
		}
		added++
	}
	return added, nil
}

func (s *SyncService) mergePayments(ctx context.Context, remote []models.Payment) (int, error) {
	local, err := s.repos.Payment.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	id := func(p models.Payment) uuid.UUID { return p.ID }
	merged := syncdata.MergeSlices(local, remote, id)

	existing := make(map[uuid.UUID]struct{}, len(local))
	for _, p := range local {
		existing[p.ID] = struct{}{}
	}
	added := 0
	for i := range merged {
		p := merged[i]
		if _, ok := existing[p.ID]; ok {
			continue
		}
		if err := s.repos.Payment.Create(ctx, &p); err != nil {
			return added, fmt.Errorf("syncing payment: %w", err)
		}
		added++
	}
	return added, nil
}

func (s *SyncService) mergeAdvances(ctx context.Context, remote []models.Advance) (int, error) {
	local, err := s.repos.Advance.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	id := func(a models.Advance) uuid.UUID { return a.ID }
	merged := syncdata.MergeSlices(local, remote, id)

	existing := make(map[uuid.UUID]struct{}, len(local))
	for _, a := range local {
		existing[a.ID] = struct{}{}
	}
	added := 0
	for i := range merged {
		a := merged[i]
		if _, ok := existing[a.ID]; ok {
			continue
		}
		if err := s.repos.Advance.Create(ctx, &a); err != nil {
			return added, fmt.Errorf("syncing advance: %w", err)
		}
		added++
	}
	return added, nil
}
