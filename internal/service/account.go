package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/stockledger/internal/apperr"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

type SignUpParams struct {
	Username  string
	Email     string
	Mobile    string
	StoreName string
}

type SignUpResult struct {
	User  model.User
	Store model.Store
}

type AccountService interface {
	// SignUp creates a store and its owner's profile together.
	SignUp(ctx context.Context, params SignUpParams) (SignUpResult, error)
	session.Loader
}

type accountService struct {
	db          db.DB
	accountRepo repository.AccountRepository
}

func NewAccountService(db db.DB, accountRepo repository.AccountRepository) AccountService {
	return &accountService{
		db:          db,
		accountRepo: accountRepo,
	}
}

func (s *accountService) SignUp(ctx context.Context, params SignUpParams) (SignUpResult, error) {
	userID, err := uuid.NewV7()
	if err != nil {
		return SignUpResult{}, fmt.Errorf("generate uuid v7: %w", err)
	}
	storeID, err := uuid.NewV7()
	if err != nil {
		return SignUpResult{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	store := model.Store{
		ID:        storeID.String(),
		OwnerID:   userID.String(),
		Name:      params.StoreName,
		CreatedAt: now,
	}
	user := model.User{
		ID:        userID.String(),
		Username:  params.Username,
		Email:     params.Email,
		Mobile:    params.Mobile,
		StoreID:   store.ID,
		CreatedAt: now,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		repo := s.accountRepo.WithDB(db)

		if err := repo.CreateStore(ctx, store); err != nil {
			return fmt.Errorf("account repository create store: %w", err)
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("account repository create user: %w", err)
		}

		return nil
	}); err != nil {
		return SignUpResult{}, fmt.Errorf("db with tx: %w", err)
	}

	return SignUpResult{User: user, Store: store}, nil
}

func (s *accountService) LoadSession(ctx context.Context, userID string) (session.Session, error) {
	user, err := s.accountRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.UserNotFoundErr) {
			return session.Session{}, apperr.UnauthenticatedErr.WrapParent(err)
		}
		return session.Session{}, fmt.Errorf("account repository get user: %w", err)
	}

	return session.Session{
		UserID:   user.ID,
		StoreID:  user.StoreID,
		Username: user.Username,
	}, nil
}
