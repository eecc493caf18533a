package service

import (
	"context"
	"time"

	"github.com/jdeweedata/circletel-sub013/internal/cache"
	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog rows change only through the import CLI, so short-lived caching
// keeps the public product endpoints off the database.
const productCacheTTL = 5 * time.Minute

const activeListKey = "__active__"

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo catalogdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      catalogdomain.Repository
	byCode    *cache.TTLCache[string, *catalogdomain.Product]
	listCache *cache.TTLCache[string, []*catalogdomain.Product]
}

func NewService(p Params) catalogdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("catalog.service"),
		repo:      p.Repo,
		byCode:    cache.NewTTLCache[string, *catalogdomain.Product](),
		listCache: cache.NewTTLCache[string, []*catalogdomain.Product](),
	}
}

func (s *Service) ListActive(ctx context.Context) ([]*catalogdomain.Product, error) {
	if cached, ok := s.listCache.Get(activeListKey); ok {
		return cached, nil
	}

	products, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(activeListKey, products, productCacheTTL)
	return products, nil
}

func (s *Service) GetByCode(ctx context.Context, packageCode string) (*catalogdomain.Product, error) {
	if cached, ok := s.byCode.Get(packageCode); ok {
		return cached, nil
	}

	product, err := s.repo.FindByCode(ctx, s.db, packageCode)
	if err != nil {
		return nil, err
	}
	s.byCode.Set(packageCode, product, productCacheTTL)
	return product, nil
}
