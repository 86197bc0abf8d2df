package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lendtrack/lendtrack-api/internal/cryptox"
	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// backupVersion guards against restoring snapshots written by an
// incompatible release.
const backupVersion = 1

// BackupSnapshot is the full portfolio state carried by an encrypted backup
type BackupSnapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Borrowers []models.Borrower `json:"borrowers"`
	Loans     []models.Loan     `json:"loans"`
	Payments  []models.Payment  `json:"payments"`
	Advances  []models.Advance  `json:"advances"`
}

// BackupService writes and restores passphrase-encrypted snapshots of the
// whole portfolio. Restore replaces nothing silently; it only inserts
// records whose IDs are not already present.
type BackupService struct {
	repos      *repository.Repositories
	reconciler *ReconciliationService
}

func NewBackupService(repos *repository.Repositories, reconciler *ReconciliationService) *BackupService {
	return &BackupService{repos: repos, reconciler: reconciler}
}

// Export serializes the portfolio and seals it with the passphrase
func (s *BackupService) Export(ctx context.Context, passphrase string) ([]byte, error) {
	snapshot, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	plaintext, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	blob, err := cryptox.Encrypt(plaintext, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}
	logger.Info("Backup exported",
		"borrowers", len(snapshot.Borrowers),
		"loans", len(snapshot.Loans),
		"payments", len(snapshot.Payments))
	return blob, nil
}

// Restore decrypts a backup and inserts the records missing locally.
// It returns the number of inserted records per entity.
func (s *BackupService) Restore(ctx context.Context, blob []byte, passphrase string) (map[string]int, error) {
	plaintext, err := cryptox.Decrypt(blob, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("decrypting backup: %w", err)
	}
	var snapshot BackupSnapshot
	if err := json.Unmarshal(plaintext, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}
	if snapshot.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", snapshot.Version)
	}

	inserted := map[string]int{}
	for i := range snapshot.Borrowers {
		b := snapshot.Borrowers[i]
		b.Loans = nil
		b.Advances = nil
		if _, err := s.repos.Borrower.FindByID(ctx, b.ID); err == nil {
			continue
		}
		if err := s.repos.Borrower.Create(ctx, &b); err != nil {
			return nil, fmt.Errorf("restoring borrower: %w", err)
		}
		inserted["borrowers"]++
	}
	for i := range snapshot.Loans {
		l := snapshot.Loans[i]
		l.Payments = nil
		if _, err := s.repos.Loan.FindByID(ctx, l.ID); err == nil {
			continue
		}
		if err := s.repos.Loan.Create(ctx, &l); err != nil {
			return nil, fmt.Errorf("restoring loan: %w", err)
		}
		inserted["loans"]++
	}
	for i := range snapshot.Payments {
		p := snapshot.Payments[i]
		if _, err := s.repos.Payment.FindByID(ctx, p.ID); err == nil {
			continue
		}
		if err := s.repos.Payment.Create(ctx, &p); err != nil {
			return nil, fmt.Errorf("restoring payment: %w", err)
		}
		inserted["payments"]++
	}
	for i := range snapshot.Advances {
		a := snapshot.Advances[i]
		if _, err := s.repos.Advance.FindByID(ctx, a.ID); err == nil {
			continue
		}
		if err := s.repos.Advance.Create(ctx, &a); err != nil {
			return nil, fmt.Errorf("restoring advance: %w", err)
		}
		inserted["advances"]++
	}

	if _, err := s.reconciler.Run(ctx); err != nil {
		logger.Error("Reconciliation after restore failed", "error", err)
	}
	logger.Info("Backup restored", "inserted", inserted)
	return inserted, nil
}

func (s *BackupService) collect(ctx context.Context) (*BackupSnapshot, error) {
	borrowers, err := s.repos.Borrower.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.repos.Loan.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payment.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	advances, err := s.repos.Advance.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return &BackupSnapshot{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC(),
		Borrowers: borrowers,
		Loans:     loans,
		Payments:  payments,
		Advances:  advances,
	}, nil
}
