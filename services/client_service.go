package services

import (
	"errors"
	"strings"

	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

// ClientService owns the client registry: upsert-by-email identity and
// the cascade delete that keeps reservation foreign keys consistent.
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// ClientIdentity is the contact info a reservation intent carries.
type ClientIdentity struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Notes     *string
}

// UpsertByEmail inserts or merges a client inside the caller's
// transaction, keyed on the email uniqueness constraint. Incoming
// contact fields overwrite stored ones; es_frecuente and en_lista_negra
// are registry-owned and never touched here. Notes only overwrite when
// non-empty.
func (s *ClientService) UpsertByEmail(tx *gorm.DB, in ClientIdentity) (*models.Client, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var client models.Client
	err := tx.Where("correo_electronico = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		client = models.Client{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
			Notes:     normalizeNotes(in.Notes),
		}
		if createErr := tx.Create(&client).Error; createErr != nil {
			// A concurrent insert may have won the unique index race;
			// fall back to merging into the winner's row.
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, createErr
			}
			if err := tx.Where("correo_electronico = ?", email).First(&client).Error; err != nil {
				return nil, err
			}
		} else {
			return &client, nil
		}
	} else if err != nil {
		return nil, err
	}

	client.FirstName = strings.TrimSpace(in.FirstName)
	client.LastName = strings.TrimSpace(in.LastName)
	client.Phone = strings.TrimSpace(in.Phone)
	if n := normalizeNotes(in.Notes); n != nil {
		client.Notes = n
	}

	if err := tx.Save(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Delete removes a client and every reservation that references it, in
// one transaction, reservations first so no foreign key breaks.
func (s *ClientService) Delete(id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var client models.Client
	if err := tx.First(&client, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var reservationIDs []uint
	if err := tx.Model(&models.Reservation{}).
		Where("cliente_id = ?", id).
		Pluck("id", &reservationIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(reservationIDs) > 0 {
		if err := tx.Where("reserva_id IN ?", reservationIDs).
			Delete(&models.ReservationToken{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("cliente_id = ?", id).
			Delete(&models.Reservation{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Delete(&client).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	utils.InfoLogger.Printf("Client %d deleted along with %d reservations", id, len(reservationIDs))
	return nil
}

// RecordVisit bumps the visit counter and last-visit date inside the
// caller's transaction. Called when a reservation is seated.
func (s *ClientService) RecordVisit(tx *gorm.DB, clientID uint) error {
	now := utils.RestaurantNow()
	return tx.Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"visitas":       gorm.Expr("visitas + 1"),
			"ultima_visita": now,
		}).Error
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
