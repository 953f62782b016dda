package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackid/coa_backend/internal/apperrors"
	"github.com/fintrackid/coa_backend/internal/core/accounting"
	"github.com/fintrackid/coa_backend/internal/core/domain"
	portsrepo "github.com/fintrackid/coa_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackid/coa_backend/internal/core/ports/services"
	"github.com/fintrackid/coa_backend/internal/dto"
	"github.com/google/uuid"
)

// transactionServiceImpl implements the TransactionSvcFacade interface.
type transactionServiceImpl struct {
	BaseService
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewTransactionServiceImpl creates a new transaction service.
func NewTransactionServiceImpl(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.TransactionSvcFacade {
	return &transactionServiceImpl{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
}

// Ensure transactionServiceImpl implements the TransactionSvcFacade interface.
var _ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)

// checkPostable verifies the target account is active and a leaf.
func (s *transactionServiceImpl) checkPostable(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to find account for posting", slog.String("account_id", accountID))
		return nil, err
	}
	childCount, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count children", slog.String("account_id", accountID))
		return nil, err
	}
	if err := accounting.CheckPostable(account, childCount > 0); err != nil {
		return nil, err
	}
	return account, nil
}

// CreateTransaction records a posting against an active leaf account. Exactly
// one of debit or credit must be positive.
func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := accounting.CheckAmountExclusive(req.Debit, req.Credit); err != nil {
		return nil, err
	}

	txnDate, err := time.Parse(dto.DateLayout, req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction date %q", apperrors.ErrValidation, req.TransactionDate)
	}

	if _, err := s.checkPostable(ctx, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       req.AccountID,
		TransactionDate: txnDate,
		Description:     req.Description,
		Debit:           req.Debit,
		Credit:          req.Credit,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("account_id", txn.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID))
	return &txn, nil
}

func (s *transactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionServiceImpl) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	return txns, nil
}

// GetTransactionStats aggregates debit/credit totals over the full filtered
// set, ignoring pagination.
func (s *transactionServiceImpl) GetTransactionStats(ctx context.Context, filter portsrepo.ListTransactionsFilter) (*domain.TransactionStats, error) {
	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0

	txns, err := s.txnRepo.ListTransactions(ctx, unpaged)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for stats")
		return nil, err
	}
	stats := accounting.BuildTransactionStats(txns)
	return &stats, nil
}

// GetTransactionReport assembles the filtered postings and their aggregate
// stats in one pass over the same snapshot. Pagination is ignored: a report
// always covers the whole filtered set.
func (s *transactionServiceImpl) GetTransactionReport(ctx context.Context, filter portsrepo.ListTransactionsFilter) (*domain.TransactionReport, error) {
	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0

	txns, err := s.txnRepo.ListTransactions(ctx, unpaged)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for report")
		return nil, err
	}

	return &domain.TransactionReport{
		Transactions: txns,
		Stats:        accounting.BuildTransactionStats(txns),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// UpdateTransaction applies partial updates to a posting. The merged
// debit/credit pair must still satisfy the single-sided amount rule.
func (s *transactionServiceImpl) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil && *req.AccountID != txn.AccountID {
		if _, err := s.checkPostable(ctx, *req.AccountID); err != nil {
			return nil, err
		}
		txn.AccountID = *req.AccountID
	}

	if req.Debit != nil {
		txn.Debit = *req.Debit
	}
	if req.Credit != nil {
		txn.Credit = *req.Credit
	}
	if req.Debit != nil || req.Credit != nil {
		if err := accounting.CheckAmountExclusive(txn.Debit, txn.Credit); err != nil {
			return nil, err
		}
	}

	if req.TransactionDate != nil {
		txnDate, err := time.Parse(dto.DateLayout, *req.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid transaction date %q", apperrors.ErrValidation, *req.TransactionDate)
		}
		txn.TransactionDate = txnDate
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}

	txn.LastUpdatedAt = time.Now().UTC()

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated successfully", slog.String("transaction_id", transactionID))
	return txn, nil
}

// DeleteTransaction soft-deletes a posting.
func (s *transactionServiceImpl) DeleteTransaction(ctx context.Context, transactionID string) error {
	if _, err := s.GetTransactionByID(ctx, transactionID); err != nil {
		return err
	}

	if err := s.txnRepo.SoftDeleteTransaction(ctx, transactionID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted successfully", slog.String("transaction_id", transactionID))
	return nil
}
