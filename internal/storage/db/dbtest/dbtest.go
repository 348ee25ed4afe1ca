// Package dbtest provides a db.DB stand-in for tests of code that only opens
// transactions and hands the handle to repositories.
package dbtest

import (
	"context"
	"sync"

	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
)

var _ db.DB = (*FakeDB)(nil)

// FakeDB runs WithTx callbacks inline. Query methods are not implemented and
// panic if called.
type FakeDB struct {
	db.DB

	mu  sync.Mutex
	txs int
	err error
}

// New returns a FakeDB whose transactions always succeed.
func New() *FakeDB {
	return &FakeDB{}
}

// FailTx makes every following WithTx return err without running the callback.
func (f *FakeDB) FailTx(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *FakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.mu.Lock()
	f.txs++
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return err
	}
	return txFunc(f)
}

// Txs returns the number of WithTx calls.
func (f *FakeDB) Txs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txs
}
