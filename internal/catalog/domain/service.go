package domain

import "context"

type Service interface {
	ListActive(ctx context.Context) ([]*Product, error)
	GetByCode(ctx context.Context, packageCode string) (*Product, error)
}
