package services

import (
	"fmt"
	"testing"

	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database per test.
// TranslateError stays on so unique-index hits surface as
// gorm.ErrDuplicatedKey exactly like the MySQL setup.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
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

func newTestReservationService(db *gorm.DB) *ReservationService {
	clients := NewClientService(db)
	blocks := NewBlockService(db)
	return NewReservationService(db, clients, blocks, NewMailerFromEnv())
}

func seedTable(t *testing.T, db *gorm.DB, number string) models.Table {
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

func seedSlot(t *testing.T, db *gorm.DB, start, end string) models.TimeSlot {
	t.Helper()
	slot := models.TimeSlot{StartTime: start, EndTime: end, Active: true, DurationMinutes: 60}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slot
}
