package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

// Service maintains stored-value accounts as an append-only ledger. The
// account balance is a materialization: it must always equal the signed sum
// of the account's transactions, which is why every mutation appends an
// entry and rewrites the balance in the same transaction.
type Service struct {
	repo Repository
	db   *gorm.DB
}

// NewService builds the wallet service. conn is used for read paths and
// standalone credits (top-ups) that run outside an order transaction.
func NewService(repo Repository, conn *gorm.DB) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if conn == nil {
		return nil, fmt.Errorf("wallet db handle required")
	}
	return &Service{repo: repo, db: conn}, nil
}

// Debit withdraws from the user's wallet inside the caller's transaction.
// A missing account is treated the same as an empty one.
func (s *Service) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amountCents int, source enums.WalletTransactionSource, description string) error {
	if err := checkAmount(amountCents); err != nil {
		return err
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "wallet debit requires a transaction")
	}

	repo := s.repo.WithTx(tx)
	account, err := repo.FindAccountByUserLocked(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeInsufficientFunds, "no wallet for user %s", userID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet account")
	}

	if account.BalanceCents < amountCents {
		return pkgerrors.Newf(pkgerrors.CodeInsufficientFunds,
			"wallet balance %d below charge %d", account.BalanceCents, amountCents)
	}

	entry := models.WalletTransaction{
		WalletID:    account.ID,
		AmountCents: -amountCents,
		Source:      source,
		Description: description,
	}
	if err := repo.CreateTransaction(ctx, &entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append wallet entry")
	}
	if err := repo.UpdateBalance(ctx, account.ID, account.BalanceCents-amountCents); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wallet balance")
	}
	return nil
}

// Credit deposits into the user's wallet inside the caller's transaction,
// creating the account on first credit.
func (s *Service) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amountCents int, source enums.WalletTransactionSource, description string) error {
	if err := checkAmount(amountCents); err != nil {
		return err
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "wallet credit requires a transaction")
	}

	repo := s.repo.WithTx(tx)
	account, err := repo.FindAccountByUserLocked(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet account")
		}
		account = &models.WalletAccount{UserID: userID}
		if err := repo.CreateAccount(ctx, account); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet account")
		}
	}

	entry := models.WalletTransaction{
		WalletID:    account.ID,
		AmountCents: amountCents,
		Source:      source,
		Description: description,
	}
	if err := repo.CreateTransaction(ctx, &entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append wallet entry")
	}
	if err := repo.UpdateBalance(ctx, account.ID, account.BalanceCents+amountCents); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wallet balance")
	}
	return nil
}

// TopUp is a standalone credit in its own transaction.
func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, amountCents int, description string) error {
	if err := checkAmount(amountCents); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Credit(ctx, tx, userID, amountCents, enums.WalletSourceTopUp, description)
	})
}

// Balance returns the user's current balance. Users without an account have
// a zero balance rather than an error.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.repo.FindAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet account")
	}
	return account.BalanceCents, nil
}

// Transactions returns the user's ledger entries, newest first.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	account, err := s.repo.FindAccountByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet account")
	}
	entries, err := s.repo.FindTransactions(ctx, account.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet entries")
	}
	return entries, nil
}

func checkAmount(amountCents int) error {
	if amountCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	return nil
}
