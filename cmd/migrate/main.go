package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"beewise-preorder-go/internal/config"
	"beewise-preorder-go/internal/db"
	"beewise-preorder-go/internal/model"
	"beewise-preorder-go/internal/repository"
	"beewise-preorder-go/internal/service"
)

// legacyPreorder matches the schema of the old file-based signup database
type legacyPreorder struct {
	Email      string `gorm:"column:email"`
	SignupDate string `gorm:"column:signup_date"`
	Notified   bool   `gorm:"column:notified"`
}

func (legacyPreorder) TableName() string {
	return "preorders"
}

// One-shot importer: copies rows from the legacy SQLite signup file into
// the preorders table. Rows whose normalized email already exists are
// skipped, so the import can be re-run safely.
func main() {
	sqlitePath := flag.String("sqlite", "preorders.db", "path to the legacy SQLite database")
	flag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.DBName == "" {
		logrus.Fatal("Database host, user, and dbname are required")
	}

	source, err := gorm.Open(sqlite.Open(*sqlitePath), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to open SQLite database %s: %v", *sqlitePath, err)
	}

	target, err := db.Init(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize target database: %v", err)
	}

	var legacy []legacyPreorder
	if err := source.Find(&legacy).Error; err != nil {
		logrus.Fatalf("Failed to read legacy preorders: %v", err)
	}
	logrus.Infof("Found %d legacy preorder rows", len(legacy))

	repo := repository.New(target)
	ctx := context.Background()

	var imported, skipped, failed int
	for _, row := range legacy {
		preorder := &model.Preorder{
			Email:    service.NormalizeEmail(row.Email),
			Notified: row.Notified,
		}
		if preorder.Email == "" {
			logrus.Warn("Skipping legacy row with empty email")
			skipped++
			continue
		}
		preorder.SignupDate = parseSignupDate(row.SignupDate)

		err := repo.Create(ctx, preorder)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, repository.ErrDuplicateEmail):
			logrus.WithField("email", preorder.Email).Info("Skipping already imported email")
			skipped++
		default:
			logrus.WithField("email", preorder.Email).Errorf("Failed to import row: %v", err)
			failed++
		}
	}

	logrus.WithFields(logrus.Fields{
		"imported": imported,
		"skipped":  skipped,
		"failed":   failed,
	}).Info("Migration finished")

	if failed > 0 {
		logrus.Exit(1)
	}
}

// parseSignupDate accepts the timestamp formats SQLite stored over the
// site's lifetime; rows with an unreadable date keep their place with the
// import time.
func parseSignupDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	logrus.WithField("signup_date", raw).Warn("Unparseable legacy signup date, using current time")
	return time.Now().UTC()
}
