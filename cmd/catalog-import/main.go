package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/catalog/importer"
	"github.com/jdeweedata/circletel-sub013/internal/catalog/repository"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/migration"
	"github.com/jdeweedata/circletel-sub013/internal/observability/logger"
	"github.com/jdeweedata/circletel-sub013/pkg/db"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Exit codes: 0 imported, 1 usage or configuration error, 2 workbook could
// not be parsed, 3 database failure.
const (
	exitOK = iota
	exitUsage
	exitParse
	exitDatabase
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		file    = flag.String("file", "", "path to the catalog workbook (.xlsx)")
		sheet   = flag.String("sheet", "", "sheet name (defaults to the first sheet)")
		envFile = flag.String("env", "", "optional dotenv file")
		dryRun  = flag.Bool("dry-run", false, "parse and report without writing")
		timeout = flag.Duration("timeout", 2*time.Minute, "database operation timeout")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "catalog-import: -file is required")
		flag.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog-import: %v\n", err)
		return exitUsage
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog-import: %v\n", err)
		return exitUsage
	}
	defer log.Sync()
	log = log.Named("catalog.import")

	genID, err := snowflake.NewNode(1)
	if err != nil {
		log.Error("snowflake node init failed", zap.Error(err))
		return exitUsage
	}

	result, err := importer.ParseFile(*file, *sheet, genID, time.Now().UTC())
	if err != nil {
		log.Error("workbook parse failed", zap.String("file", *file), zap.Error(err))
		return exitParse
	}
	for _, skipped := range result.Skipped {
		log.Warn("row skipped",
			zap.Int("row", skipped.Row),
			zap.Error(skipped.Err),
		)
	}
	if len(result.Products) == 0 {
		log.Error("no importable rows found", zap.String("file", *file))
		return exitParse
	}

	log.Info("workbook parsed",
		zap.Int("products", len(result.Products)),
		zap.Int("skipped", len(result.Skipped)),
	)
	if *dryRun {
		return exitOK
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := gorm.Open(postgres.Open(db.DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error("database connect failed", zap.Error(err))
		return exitDatabase
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Error("database unwrap failed", zap.Error(err))
		return exitDatabase
	}
	defer sqlDB.Close()

	if err := migration.RunMigrations(sqlDB); err != nil {
		log.Error("migrations failed", zap.Error(err))
		return exitDatabase
	}

	written, err := repository.Provide().Upsert(ctx, conn, result.Products)
	if err != nil {
		log.Error("catalog upsert failed", zap.Error(err))
		return exitDatabase
	}

	log.Info("catalog import complete",
		zap.Int64("written", written),
		zap.Int("skipped", len(result.Skipped)),
	)
	return exitOK
}
