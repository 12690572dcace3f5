package quiz

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("bank not found")

type ListOpts struct {
	Q      string
	Limit  int
	Offset int
}

type BankSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     int64  `json:"created_at"`
}

type Store interface {
	PutBank(ctx context.Context, b Bank) error
	GetBank(ctx context.Context, id string) (Bank, error)
	ListBanks(ctx context.Context, opts ListOpts) ([]BankSummary, error)
	DeleteBank(ctx context.Context, id string) error
}
