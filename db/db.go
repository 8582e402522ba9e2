package db

import (
	"fmt"
	"log"

	"github.com/teneola/staffx/config"
	"github.com/teneola/staffx/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

// SeedUsers creates the demo accounts so the login collaborator and the chat
// directory have data on a fresh database. Idempotent: keyed by email.
func SeedUsers(db *gorm.DB) error {
	users := []models.User{
		{Name: "Admin", Email: "admin@staffx.local", Role: models.RoleAdmin, Password: "admin123"},
		{Name: "Alice Mark", Email: "alice@staffx.local", Role: models.RoleStaff, Password: "password"},
		{Name: "Ben Okoro", Email: "ben@staffx.local", Role: models.RoleStaff, Password: "password"},
	}

	for _, user := range users {
		var existing models.User
		err := db.Where("email = ?", user.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := user.HashPassword(); err != nil {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("seeded user %s", user.Email)
	}

	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}

	if err := SeedUsers(db); err != nil {
		return fmt.Errorf("seeding users error: %v", err)
	}

	return nil
}
