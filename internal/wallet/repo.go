package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db"
	"github.com/dcastillo/mercato-backend/pkg/db/models"
)

// Repository defines persistence operations for wallet accounts and their
// append-only transaction ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAccountByUser(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error)
	// FindAccountByUserLocked loads the account under FOR UPDATE so balance
	// mutations serialize with competing debits.
	FindAccountByUserLocked(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error)
	CreateAccount(ctx context.Context, account *models.WalletAccount) error
	UpdateBalance(ctx context.Context, walletID uuid.UUID, balanceCents int) error
	CreateTransaction(ctx context.Context, entry *models.WalletTransaction) error
	FindTransactions(ctx context.Context, walletID uuid.UUID) ([]models.WalletTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindAccountByUser(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error) {
	var account models.WalletAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindAccountByUserLocked(ctx context.Context, userID uuid.UUID) (*models.WalletAccount, error) {
	var account models.WalletAccount
	err := db.LockForUpdate(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) CreateAccount(ctx context.Context, account *models.WalletAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) UpdateBalance(ctx context.Context, walletID uuid.UUID, balanceCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletAccount{}).
		Where("id = ?", walletID).
		Update("balance_cents", balanceCents).Error
}

func (r *repository) CreateTransaction(ctx context.Context, entry *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindTransactions(ctx context.Context, walletID uuid.UUID) ([]models.WalletTransaction, error) {
	var entries []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC, id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
