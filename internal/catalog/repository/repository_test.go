package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Product{}))
	return db
}

func product(id snowflake.ID, code string, price int64) *catalogdomain.Product {
	now := time.Now().UTC()
	return &catalogdomain.Product{
		ID:           id,
		PackageCode:  code,
		Name:         "Package " + code,
		MonthlyPrice: price,
		Currency:     "ZAR",
		Active:       true,
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUpsertMergesOnPackageCode(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	_, err = repo.Upsert(context.Background(), db, []*catalogdomain.Product{
		product(node.Generate(), "FTTH-100", 79900),
	})
	require.NoError(t, err)

	// Re-import with a new price under the same code.
	_, err = repo.Upsert(context.Background(), db, []*catalogdomain.Product{
		product(node.Generate(), "FTTH-100", 84900),
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&catalogdomain.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByCode(context.Background(), db, "FTTH-100")
	require.NoError(t, err)
	assert.Equal(t, int64(84900), found.MonthlyPrice)
}

func TestListActiveExcludesRetiredPackages(t *testing.T) {
	db := newTestDB(t)
	repo := Provide()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	retired := product(node.Generate(), "ADSL-4", 19900)
	retired.Active = false

	_, err = repo.Upsert(context.Background(), db, []*catalogdomain.Product{
		product(node.Generate(), "FTTH-50", 59900),
		retired,
	})
	require.NoError(t, err)

	active, err := repo.ListActive(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "FTTH-50", active[0].PackageCode)
}

func TestFindByCodeNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := Provide().FindByCode(context.Background(), db, "NOPE-1")
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)

	_, err = Provide().FindByCode(context.Background(), db, "  ")
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidPackageCode)
}
