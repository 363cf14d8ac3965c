package services

import (
	"github.com/pandawok/reservas-backend/models"
	"gorm.io/gorm"
)

// AvailabilityService answers "which catalog slots are still bookable
// for this table on this date". Slot-id subtraction only: table blocks
// are a separate, finer-grained axis checked by the reservation write
// path, never merged into this result. Reads hit the database directly
// so the answer always reflects the latest committed state.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// AvailableSlots returns the active catalog entries minus those already
// referenced by a non-cancelled reservation for (table, date), ordered
// by start time.
func (s *AvailabilityService) AvailableSlots(tableID uint, date string) ([]models.TimeSlot, error) {
	booked := s.db.Model(&models.Reservation{}).
		Select("horario_id").
		Where("mesa_id = ? AND fecha_reserva = ? AND estado <> ? AND horario_id IS NOT NULL",
			tableID, date, ReservationStatusCancelled)

	var slots []models.TimeSlot
	err := s.db.
		Where("esta_activo = ?", true).
		Where("id NOT IN (?)", booked).
		Order("hora_inicio ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
