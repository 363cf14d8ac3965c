package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

// Reservation lifecycle: pendiente -> {confirmada, cancelada},
// confirmada -> {sentada, cancelada}; sentada and cancelada are
// terminal. Hard delete is a staff action available at any state.
const (
	ReservationStatusPending   = "pendiente"
	ReservationStatusConfirmed = "confirmada"
	ReservationStatusSeated    = "sentada"
	ReservationStatusCancelled = "cancelada"
)

// Action kinds carried by one-time guest tokens.
const (
	TokenActionConfirm = "confirmar"
	TokenActionCancel  = "cancelar"
)

// TableAssignment is the explicit form of the nullable mesa/horario
// pair. The exclusivity invariant only has a triple to guard once both
// halves are present; a partially assigned reservation occupies nothing.
type TableAssignment struct {
	TableID *uint
	SlotID  *uint
}

// FullyAssigned reports whether the reservation occupies a concrete
// (mesa, horario) pair.
func (a TableAssignment) FullyAssigned() bool {
	return a.TableID != nil && a.SlotID != nil
}

// slotLock derives the uniqueness-guard column: true occupies the
// (mesa, fecha, horario) key in the unique index, NULL opts out.
func (a TableAssignment) slotLock(status string) *bool {
	if status == ReservationStatusCancelled || !a.FullyAssigned() {
		return nil
	}
	locked := true
	return &locked
}

// ReservationService is the admission and consistency core. Every
// multi-statement operation runs in a single transaction with rollback
// on any failure; the application-level conflict checks are the fast
// path and the composite unique index on reservas is the backstop.
type ReservationService struct {
	db      *gorm.DB
	clients *ClientService
	blocks  *BlockService
	mailer  *Mailer
}

func NewReservationService(db *gorm.DB, clients *ClientService, blocks *BlockService, mailer *Mailer) *ReservationService {
	return &ReservationService{db: db, clients: clients, blocks: blocks, mailer: mailer}
}

// CreateIntent carries a validated request to create a client-backed
// reservation. Table and slot are both optional: a reservation may wait
// unassigned until a table frees up.
type CreateIntent struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	TableID   *uint
	SlotID    *uint
	Date      string
	PartySize int
	Notes     *string
	CreatedBy *uint
}

// WalkInIntent creates a reservation with no client identity. The table
// is known (the party is standing at it); the slot may be unset.
type WalkInIntent struct {
	TableID   uint
	SlotID    *uint
	Date      string
	PartySize int
	Notes     *string
	CreatedBy *uint
}

// UpdateIntent replaces the mutable fields of a reservation wholesale.
// Nil pointers unset the corresponding column; this is full-record
// replace, not a sparse patch.
type UpdateIntent struct {
	ClientID  *uint
	TableID   *uint
	SlotID    *uint
	Date      string
	PartySize int
	Notes     *string
}

// Create admits a reservation for an identified guest:
//  1. upsert the client by email and refuse blacklisted guests before
//     any reservation row exists,
//  2. check slot exclusivity and table blocks when table+slot given,
//  3. refuse a duplicate (client, date, slot) booking,
//  4. insert as pendiente and mint confirm/cancel tokens when email
//     notification is configured.
// All inside one transaction; the guest email goes out after commit and
// never blocks the response.
func (s *ReservationService) Create(intent CreateIntent) (*models.Reservation, error) {
	if intent.FirstName == "" || intent.LastName == "" || intent.Email == "" ||
		intent.Phone == "" || intent.Date == "" {
		return nil, NewValidationError("faltan datos obligatorios para crear reserva")
	}
	if intent.PartySize <= 0 {
		return nil, NewValidationError("cantidad_personas debe ser mayor a cero")
	}

	assignment := TableAssignment{TableID: intent.TableID, SlotID: intent.SlotID}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	client, err := s.clients.UpsertByEmail(tx, ClientIdentity{
		FirstName: intent.FirstName,
		LastName:  intent.LastName,
		Email:     intent.Email,
		Phone:     intent.Phone,
		Notes:     intent.Notes,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if client.IsBlacklisted {
		// Rollback also undoes the upsert: a refused intent leaves no
		// writes behind.
		tx.Rollback()
		return nil, ErrClientBlacklisted
	}

	if assignment.FullyAssigned() {
		if err := s.ensureSlotFree(tx, *assignment.TableID, *assignment.SlotID, intent.Date, 0); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := s.ensureNotBlocked(tx, *assignment.TableID, *assignment.SlotID, intent.Date); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if intent.SlotID != nil {
		var dup int64
		if err := tx.Model(&models.Reservation{}).
			Where("cliente_id = ? AND fecha_reserva = ? AND horario_id = ? AND estado <> ?",
				client.ID, intent.Date, *intent.SlotID, ReservationStatusCancelled).
			Count(&dup).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if dup > 0 {
			tx.Rollback()
			return nil, ErrDuplicateClientBooking
		}
	}

	reservation := models.Reservation{
		ClientID:  &client.ID,
		TableID:   intent.TableID,
		SlotID:    intent.SlotID,
		Date:      intent.Date,
		PartySize: intent.PartySize,
		Notes:     normalizeNotes(intent.Notes),
		Status:    ReservationStatusPending,
		CreatedBy: intent.CreatedBy,
		SlotLock:  assignment.slotLock(ReservationStatusPending),
	}
	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteErr(err)
	}

	var tokens []models.ReservationToken
	if s.mailer.Enabled() {
		tokens, err = mintActionTokens(tx, reservation.ID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteErr(err)
	}

	reservation.Client = client
	utils.InfoLogger.Printf("Reservation %d created for client %d on %s (status=%s)",
		reservation.ID, client.ID, reservation.Date, reservation.Status)

	if len(tokens) > 0 {
		s.sendGuestLinks(client, &reservation, tokens)
	}
	return &reservation, nil
}

// CreateWalkIn admits a reservation with no client reference. Blacklist
// and duplicate checks do not apply; slot exclusivity still does.
func (s *ReservationService) CreateWalkIn(intent WalkInIntent) (*models.Reservation, error) {
	if intent.TableID == 0 || intent.Date == "" {
		return nil, NewValidationError("faltan datos obligatorios para crear reserva walk-in")
	}
	if intent.PartySize <= 0 {
		return nil, NewValidationError("cantidad_personas debe ser mayor a cero")
	}

	tableID := intent.TableID
	assignment := TableAssignment{TableID: &tableID, SlotID: intent.SlotID}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if assignment.FullyAssigned() {
		if err := s.ensureSlotFree(tx, tableID, *intent.SlotID, intent.Date, 0); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := s.ensureNotBlocked(tx, tableID, *intent.SlotID, intent.Date); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	reservation := models.Reservation{
		TableID:   &tableID,
		SlotID:    intent.SlotID,
		Date:      intent.Date,
		PartySize: intent.PartySize,
		Notes:     normalizeNotes(intent.Notes),
		Status:    ReservationStatusPending,
		CreatedBy: intent.CreatedBy,
		SlotLock:  assignment.slotLock(ReservationStatusPending),
	}
	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteErr(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteErr(err)
	}

	utils.InfoLogger.Printf("Walk-in reservation %d created at table %d on %s",
		reservation.ID, tableID, reservation.Date)
	return &reservation, nil
}

// Update replaces date, assignment, party size, notes and client linkage
// in one shot, re-validating exclusivity while excluding the record's
// own id so an unrelated edit never conflicts with itself.
func (s *ReservationService) Update(id uint, intent UpdateIntent) (*models.Reservation, error) {
	if intent.Date == "" {
		return nil, NewValidationError("fecha_reserva es obligatoria")
	}
	if intent.PartySize <= 0 {
		return nil, NewValidationError("cantidad_personas debe ser mayor a cero")
	}

	assignment := TableAssignment{TableID: intent.TableID, SlotID: intent.SlotID}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	if err := tx.First(&reservation, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if assignment.FullyAssigned() {
		if err := s.ensureSlotFree(tx, *assignment.TableID, *assignment.SlotID, intent.Date, id); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := s.ensureNotBlocked(tx, *assignment.TableID, *assignment.SlotID, intent.Date); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	reservation.ClientID = intent.ClientID
	reservation.TableID = intent.TableID
	reservation.SlotID = intent.SlotID
	reservation.Date = intent.Date
	reservation.PartySize = intent.PartySize
	reservation.Notes = normalizeNotes(intent.Notes)
	reservation.SlotLock = assignment.slotLock(reservation.Status)

	// Save skips NULLing pointer columns on updates, so write the
	// nullable set explicitly: this is full-record replace.
	if err := tx.Model(&reservation).
		Select("cliente_id", "mesa_id", "horario_id", "fecha_reserva",
			"cantidad_personas", "notas", "slot_lock", "updated_at").
		Updates(map[string]interface{}{
			"cliente_id":        reservation.ClientID,
			"mesa_id":           reservation.TableID,
			"horario_id":        reservation.SlotID,
			"fecha_reserva":     reservation.Date,
			"cantidad_personas": reservation.PartySize,
			"notas":             reservation.Notes,
			"slot_lock":         reservation.SlotLock,
		}).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteErr(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteErr(err)
	}

	utils.InfoLogger.Printf("Reservation %d updated (date=%s)", id, intent.Date)
	return &reservation, nil
}

// AssignTable moves a waiting or walk-in reservation onto a concrete
// (mesa, horario) once one frees up. Same conflict checks as Create.
func (s *ReservationService) AssignTable(id, tableID, slotID uint) (*models.Reservation, error) {
	if tableID == 0 || slotID == 0 {
		return nil, NewValidationError("mesa_id y horario_id son obligatorios")
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	if err := tx.First(&reservation, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ensureSlotFree(tx, tableID, slotID, reservation.Date, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.ensureNotBlocked(tx, tableID, slotID, reservation.Date); err != nil {
		tx.Rollback()
		return nil, err
	}

	assignment := TableAssignment{TableID: &tableID, SlotID: &slotID}
	reservation.TableID = &tableID
	reservation.SlotID = &slotID
	reservation.SlotLock = assignment.slotLock(reservation.Status)

	if err := tx.Save(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteErr(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteErr(err)
	}

	utils.InfoLogger.Printf("Reservation %d assigned to table %d slot %d", id, tableID, slotID)
	return &reservation, nil
}

// MarkSeated marks the dining event started. Idempotent when already
// seated; refused on a cancelled reservation. Seating counts as a visit
// for the client.
func (s *ReservationService) MarkSeated(id uint) (*models.Reservation, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	if err := tx.First(&reservation, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if reservation.Status == ReservationStatusSeated {
		tx.Rollback()
		return &reservation, nil
	}
	if reservation.Status == ReservationStatusCancelled {
		tx.Rollback()
		return nil, ErrInvalidStatus
	}

	reservation.Status = ReservationStatusSeated
	if err := tx.Save(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if reservation.ClientID != nil {
		if err := s.clients.RecordVisit(tx, *reservation.ClientID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %d seated", id)
	return &reservation, nil
}

// SetStatus is the staff-driven transition, restricted to pendiente,
// confirmada and cancelada. Repeating a transition is a no-op success.
// The guest notification is dispatched after commit and its failure is
// only ever logged.
func (s *ReservationService) SetStatus(id uint, status string) (*models.Reservation, error) {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	if err := tx.Preload("Client").First(&reservation, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if reservation.Status == status {
		tx.Rollback()
		return &reservation, nil
	}

	assignment := TableAssignment{TableID: reservation.TableID, SlotID: reservation.SlotID}
	reservation.Status = status
	reservation.SlotLock = assignment.slotLock(status)

	if err := tx.Model(&reservation).
		Select("estado", "slot_lock", "updated_at").
		Updates(map[string]interface{}{
			"estado":    reservation.Status,
			"slot_lock": reservation.SlotLock,
		}).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteErr(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteErr(err)
	}

	utils.InfoLogger.Printf("Reservation %d status set to %s", id, status)

	if reservation.Client != nil && reservation.Client.Email != "" {
		subject := fmt.Sprintf("Tu reserva en PandaWok: %s", status)
		body := fmt.Sprintf("Hola %s,\n\nTu reserva del %s ahora esta %s.\n\nPandaWok",
			reservation.Client.FirstName, reservation.Date, status)
		s.mailer.SendAsync(reservation.Client.Email, subject, body, "")
	}
	return &reservation, nil
}

// ConsumeActionToken resolves a guest confirm/cancel link. The first
// visit applies the transition, stamps consumed_at and notifies staff;
// any replay returns the current state without side effects.
func (s *ReservationService) ConsumeActionToken(tokenStr string) (*models.Reservation, string, bool, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, "", false, tx.Error
	}

	var token models.ReservationToken
	if err := tx.Where("token = ?", tokenStr).First(&token).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", false, ErrNotFound
		}
		return nil, "", false, err
	}

	var reservation models.Reservation
	if err := tx.Preload("Client").First(&reservation, token.ReservationID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", false, ErrNotFound
		}
		return nil, "", false, err
	}

	if token.ConsumedAt != nil {
		tx.Rollback()
		return &reservation, token.Action, true, nil
	}

	var status string
	switch token.Action {
	case TokenActionConfirm:
		status = ReservationStatusConfirmed
	case TokenActionCancel:
		status = ReservationStatusCancelled
	default:
		tx.Rollback()
		return nil, "", false, ErrNotFound
	}

	assignment := TableAssignment{TableID: reservation.TableID, SlotID: reservation.SlotID}
	reservation.Status = status
	reservation.SlotLock = assignment.slotLock(status)

	if err := tx.Model(&reservation).
		Select("estado", "slot_lock", "updated_at").
		Updates(map[string]interface{}{
			"estado":    reservation.Status,
			"slot_lock": reservation.SlotLock,
		}).Error; err != nil {
		tx.Rollback()
		return nil, "", false, translateWriteErr(err)
	}

	now := utils.RestaurantNow()
	if err := tx.Model(&token).Update("consumed_at", now).Error; err != nil {
		tx.Rollback()
		return nil, "", false, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, "", false, translateWriteErr(err)
	}

	utils.InfoLogger.Printf("Reservation %d %s via action token", reservation.ID, status)
	s.notifyStaff(&reservation, token.Action)
	return &reservation, token.Action, false, nil
}

// Delete hard-deletes a reservation and its action tokens in one
// transaction, then returns the remaining reservations for that date as
// a convenience read.
func (s *ReservationService) Delete(id uint) ([]models.Reservation, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var reservation models.Reservation
	if err := tx.First(&reservation, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := tx.Where("reserva_id = ?", id).Delete(&models.ReservationToken{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %d deleted", id)

	var remaining []models.Reservation
	if err := s.db.Preload("Client").
		Where("fecha_reserva = ?", reservation.Date).
		Order("horario_id ASC").
		Find(&remaining).Error; err != nil {
		return nil, err
	}
	return remaining, nil
}

// ensureSlotFree is the advisory exclusivity check: at most one
// non-cancelled reservation per (mesa, fecha, horario). excludeID keeps
// a record from conflicting with itself on update.
func (s *ReservationService) ensureSlotFree(tx *gorm.DB, tableID, slotID uint, date string, excludeID uint) error {
	q := tx.Model(&models.Reservation{}).
		Where("mesa_id = ? AND horario_id = ? AND fecha_reserva = ? AND estado <> ?",
			tableID, slotID, date, ReservationStatusCancelled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotConflict
	}
	return nil
}

// ensureNotBlocked checks the slot's time range against the table's
// manual blocks. Blocks and slot bookings stay separate mechanisms; this
// is the write-time composition point.
func (s *ReservationService) ensureNotBlocked(tx *gorm.DB, tableID, slotID uint, date string) error {
	var slot models.TimeSlot
	if err := tx.First(&slot, slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	blocked, err := s.blocks.overlapsTx(tx, tableID, date, slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}
	if blocked {
		return ErrTableBlocked
	}
	return nil
}

func mintActionTokens(tx *gorm.DB, reservationID uint) ([]models.ReservationToken, error) {
	tokens := make([]models.ReservationToken, 0, 2)
	for _, action := range []string{TokenActionConfirm, TokenActionCancel} {
		value, err := utils.GenerateActionToken()
		if err != nil {
			return nil, err
		}
		token := models.ReservationToken{
			ReservationID: reservationID,
			Token:         value,
			Action:        action,
		}
		if err := tx.Create(&token).Error; err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (s *ReservationService) sendGuestLinks(client *models.Client, reservation *models.Reservation, tokens []models.ReservationToken) {
	baseURL := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var confirmLink, cancelLink string
	for _, t := range tokens {
		link := fmt.Sprintf("%s/api/reservas/accion/%s", baseURL, t.Token)
		if t.Action == TokenActionConfirm {
			confirmLink = link
		} else {
			cancelLink = link
		}
	}

	subject := "Confirma tu reserva en PandaWok"
	text := fmt.Sprintf(
		"Hola %s,\n\nRecibimos tu reserva para el %s (%d personas).\n\n"+
			"Confirmar: %s\nCancelar: %s\n\nPandaWok",
		client.FirstName, reservation.Date, reservation.PartySize, confirmLink, cancelLink)
	s.mailer.SendAsync(client.Email, subject, text, "")
}

func (s *ReservationService) notifyStaff(reservation *models.Reservation, action string) {
	guest := "walk-in"
	if reservation.Client != nil {
		guest = fmt.Sprintf("%s %s", reservation.Client.FirstName, reservation.Client.LastName)
	}
	subject := fmt.Sprintf("Reserva %d: el cliente eligio %s", reservation.ID, action)
	body := fmt.Sprintf("Reserva %d (%s, %s, %d personas) paso a estado %s.",
		reservation.ID, guest, reservation.Date, reservation.PartySize, reservation.Status)

	staff := os.Getenv("STAFF_NOTIFY_EMAIL")
	if staff == "" {
		utils.InfoLogger.Printf("Staff notification (no STAFF_NOTIFY_EMAIL set): %s", subject)
		return
	}
	s.mailer.SendAsync(staff, subject, body, "")
}

// translateWriteErr maps the unique-index backstop onto the business
// conflict error so a race lost at commit time reads the same as one
// caught by the advisory check.
func translateWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotConflict
	}
	return err
}
