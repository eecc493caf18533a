package repository

import (
	"context"
	"errors"
	"strings"

	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

// Provide constructs the gorm-backed catalog repository.
func Provide() catalogdomain.Repository {
	return repository{}
}

// Upsert merges products on package_code. Returns the number of rows
// written.
func (repository) Upsert(ctx context.Context, db *gorm.DB, products []*catalogdomain.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "package_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"category",
			"download_mbps",
			"upload_mbps",
			"monthly_price",
			"setup_fee",
			"currency",
			"provider",
			"active",
			"metadata",
			"updated_at",
		}),
	}).Create(&products)
	return result.RowsAffected, result.Error
}

func (repository) FindByCode(ctx context.Context, db *gorm.DB, packageCode string) (*catalogdomain.Product, error) {
	packageCode = strings.TrimSpace(packageCode)
	if packageCode == "" {
		return nil, catalogdomain.ErrInvalidPackageCode
	}

	var product catalogdomain.Product
	err := db.WithContext(ctx).
		Where("package_code = ?", packageCode).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalogdomain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (repository) ListActive(ctx context.Context, db *gorm.DB) ([]*catalogdomain.Product, error) {
	var products []*catalogdomain.Product
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("package_code asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
