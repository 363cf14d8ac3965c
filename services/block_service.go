package services

import (
	"errors"
	"regexp"
	"time"

	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// BlockService manages manual table blocks: ad-hoc time ranges that take
// a table out of service for one date, independent of the slot catalog.
// Blocks never expire automatically; a past block stays queryable and
// simply stops affecting later dates.
type BlockService struct {
	db *gorm.DB
}

func NewBlockService(db *gorm.DB) *BlockService {
	return &BlockService{db: db}
}

// CreateBlock validates and stores a block. Rejected when the range is
// inverted, the table does not exist, or the start is already in the
// past in the restaurant's timezone.
func (s *BlockService) CreateBlock(tableID uint, date, start, end string) (*models.TableBlock, error) {
	if tableID == 0 || date == "" || start == "" || end == "" {
		return nil, NewValidationError("faltan datos obligatorios para crear bloqueo")
	}
	if !dateRe.MatchString(date) {
		return nil, NewValidationError("fecha debe tener formato YYYY-MM-DD")
	}
	if !timeRe.MatchString(start) || !timeRe.MatchString(end) {
		return nil, NewValidationError("hora_inicio y hora_fin deben tener formato HH:MM")
	}
	// "HH:MM" 24h strings compare correctly as text.
	if start >= end {
		return nil, NewValidationError("la hora de inicio debe ser anterior a la hora de fin")
	}

	loc := utils.RestaurantLocation()
	startsAt, err := time.ParseInLocation("2006-01-02 15:04", date+" "+start, loc)
	if err != nil {
		return nil, NewValidationError("fecha u hora de inicio invalida")
	}
	if startsAt.Before(utils.RestaurantNow()) {
		return nil, ErrBlockInPast
	}

	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	block := models.TableBlock{
		TableID:   tableID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.db.Create(&block).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %d blocked on %s from %s to %s", tableID, date, start, end)
	return &block, nil
}

// RemoveBlock deletes a block by id; ErrNotFound when it is absent.
func (s *BlockService) RemoveBlock(id uint) error {
	res := s.db.Delete(&models.TableBlock{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	utils.InfoLogger.Printf("Table block %d removed", id)
	return nil
}

// ListByTable returns the blocks for one table on one date.
func (s *BlockService) ListByTable(tableID uint, date string) ([]models.TableBlock, error) {
	var blocks []models.TableBlock
	err := s.db.
		Where("mesa_id = ? AND fecha = ?", tableID, date).
		Order("hora_inicio ASC").
		Find(&blocks).Error
	return blocks, err
}

// ListBySalon returns the blocks on one date for every table in a salon.
func (s *BlockService) ListBySalon(salonID uint, date string) ([]models.TableBlock, error) {
	tableIDs := s.db.Model(&models.Table{}).
		Select("id").
		Where("salon_id = ?", salonID)

	var blocks []models.TableBlock
	err := s.db.
		Where("mesa_id IN (?) AND fecha = ?", tableIDs, date).
		Order("mesa_id ASC, hora_inicio ASC").
		Find(&blocks).Error
	return blocks, err
}

// overlapsTx reports whether any block for (table, date) intersects the
// [start, end) range. Runs inside the caller's transaction so the
// reservation write path sees committed state.
func (s *BlockService) overlapsTx(tx *gorm.DB, tableID uint, date, start, end string) (bool, error) {
	var count int64
	err := tx.Model(&models.TableBlock{}).
		Where("mesa_id = ? AND fecha = ? AND hora_inicio < ? AND hora_fin > ?",
			tableID, date, end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
