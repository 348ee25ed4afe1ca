package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type AccountRepository interface {
	WithDB(db db.DB) AccountRepository
	CreateStore(ctx context.Context, store model.Store) error
	GetStore(ctx context.Context, id string) (model.Store, error)
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, id string) (model.User, error)
}

type accountRepository struct {
	db db.DB
}

func NewAccountRepository(db db.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r accountRepository) WithDB(db db.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

type storeRow struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type userRow struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Mobile    string    `db:"mobile"`
	StoreID   string    `db:"store_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r accountRepository) CreateStore(ctx context.Context, store model.Store) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO stores (id, owner_id, name, created_at)
		VALUES (@id, @owner_id, @name, @created_at)
	`, pgx.NamedArgs{
		"id":         store.ID,
		"owner_id":   store.OwnerID,
		"name":       store.Name,
		"created_at": store.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert store: %w", err)
	}

	return nil
}

func (r accountRepository) GetStore(ctx context.Context, id string) (model.Store, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, created_at
		FROM stores
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Store{}, fmt.Errorf("query store: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[storeRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Store{}, apperr.StoreNotFoundErr
		}
		return model.Store{}, fmt.Errorf("collect store: %w", err)
	}

	return model.Store(row), nil
}

func (r accountRepository) CreateUser(ctx context.Context, user model.User) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, mobile, store_id, created_at)
		VALUES (@id, @username, @email, @mobile, @store_id, @created_at)
	`, pgx.NamedArgs{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"mobile":     user.Mobile,
		"store_id":   user.StoreID,
		"created_at": user.CreatedAt,
	}); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.UserAlreadyExistsErr.WrapParent(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r accountRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, email, mobile, store_id, created_at
		FROM users
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, apperr.UserNotFoundErr
		}
		return model.User{}, fmt.Errorf("collect user: %w", err)
	}

	return model.User(row), nil
}
