package database

import (
	"fmt"
	"strings"

	"notifyhub/config"
	"notifyhub/internal/models"

	"github.com/mcnijman/go-emailaddress"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if isSQLite(cfg.Driver) {
		// SQLite serializes writers; one long-lived connection avoids SQLITE_BUSY and keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

// openDialector returns a gorm dialector for the configured driver. SQLite goes through the pure Go
// modernc driver so no cgo toolchain is required.
func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch {
	case strings.EqualFold(cfg.Driver, DriverMySQL):
		return mysql.Open(cfg.DSN), nil
	case isSQLite(cfg.Driver):
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.DSN}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isSQLite(driver string) bool {
	return driver == "" || strings.EqualFold(driver, DriverSQLite)
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.ItemLike{},
		&models.Notification{},
	)
}

// SeedSuperuser creates the configured first superuser when no account with that email exists.
func SeedSuperuser(db *gorm.DB, cfg *config.SuperuserConfig) error {
	if cfg.Email == "" {
		return nil
	}
	if _, err := emailaddress.Parse(cfg.Email); err != nil {
		return errors.Wrapf(err, "invalid superuser email %q", cfg.Email)
	}
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.Email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "unable to look up the superuser")
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &models.User{
		Email:        cfg.Email,
		FullName:     cfg.FullName,
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := db.Create(u).Error; err != nil {
		return errors.Wrap(err, "unable to create the superuser")
	}
	log.WithField("email", u.Email).Info("seeded superuser")
	return nil
}
