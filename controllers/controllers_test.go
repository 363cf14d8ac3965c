package controllers_test

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Salon{},
		&models.Table{},
		&models.TimeSlot{},
		&models.TableBlock{},
		&models.Client{},
		&models.Reservation{},
		&models.ReservationToken{},
		&models.WaitingEntry{},
		&models.Tag{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newReservationService(db *gorm.DB) *services.ReservationService {
	return services.NewReservationService(db,
		services.NewClientService(db),
		services.NewBlockService(db),
		services.NewMailerFromEnv())
}

func seedSalonAndTable(t *testing.T, db *gorm.DB, number string) models.Table {
	t.Helper()
	salon := models.Salon{Name: "Principal", Capacity: 40, Active: true}
	if err := db.Where("nombre = ?", salon.Name).FirstOrCreate(&salon).Error; err != nil {
		t.Fatalf("seed salon: %v", err)
	}
	table := models.Table{SalonID: salon.ID, TableNumber: number, Capacity: 4, Active: true}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}
	return table
}

func seedTimeSlot(t *testing.T, db *gorm.DB, start, end string) models.TimeSlot {
	t.Helper()
	slot := models.TimeSlot{StartTime: start, EndTime: end, Active: true, DurationMinutes: 60}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}
