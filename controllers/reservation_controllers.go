package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB, service *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Service: service}
}

// CreateReservation -> public endpoint, upserts the client and admits
// the reservation through the state machine.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		FirstName string  `json:"nombre" binding:"required"`
		LastName  string  `json:"apellido" binding:"required"`
		Email     string  `json:"correo_electronico" binding:"required,email"`
		Phone     string  `json:"telefono" binding:"required"`
		TableID   *uint   `json:"mesa_id"`
		SlotID    *uint   `json:"horario_id"`
		Date      string  `json:"fecha_reserva" binding:"required"`
		PartySize int     `json:"cantidad_personas" binding:"required"`
		Notes     *string `json:"notas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Create(services.CreateIntent{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		TableID:   req.TableID,
		SlotID:    req.SlotID,
		Date:      req.Date,
		PartySize: req.PartySize,
		Notes:     req.Notes,
		CreatedBy: userIDFromContext(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reserva creada con exito", reservation)
}

// CreateWalkIn -> reservation without client identity, table known.
func (rc *ReservationController) CreateWalkIn(c *gin.Context) {
	var req struct {
		TableID   uint    `json:"mesa_id" binding:"required"`
		SlotID    *uint   `json:"horario_id"`
		Date      string  `json:"fecha_reserva" binding:"required"`
		PartySize int     `json:"cantidad_personas" binding:"required"`
		Notes     *string `json:"notas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.CreateWalkIn(services.WalkInIntent{
		TableID:   req.TableID,
		SlotID:    req.SlotID,
		Date:      req.Date,
		PartySize: req.PartySize,
		Notes:     req.Notes,
		CreatedBy: userIDFromContext(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reserva walk-in creada con exito", reservation)
}

// GetAllReservations -> every reservation, newest date first.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	var reservations []models.Reservation
	if err := rc.DB.Preload("Client").Preload("Slot").
		Order("fecha_reserva DESC, horario_id ASC").
		Find(&reservations).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Lista de reservas", reservations)
}

// GetReservationsByDate -> agenda view for one day.
func (rc *ReservationController) GetReservationsByDate(c *gin.Context) {
	date := c.Query("fecha")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errFechaRequired)
		return
	}

	var reservations []models.Reservation
	if err := rc.DB.Preload("Client").Preload("Slot").
		Where("fecha_reserva = ?", date).
		Order("horario_id ASC").
		Find(&reservations).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservas por fecha", reservations)
}

// GetReservationsByTable -> reservations on one table for a date. An
// empty day is a 200 with an empty list, never a 404.
func (rc *ReservationController) GetReservationsByTable(c *gin.Context) {
	tableID, ok := parseID(c, "mesa_id")
	if !ok {
		return
	}
	date := c.Query("fecha")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errFechaRequired)
		return
	}

	var reservations []models.Reservation
	if err := rc.DB.Preload("Client").Preload("Slot").
		Where("mesa_id = ? AND fecha_reserva = ?", tableID, date).
		Order("horario_id ASC").
		Find(&reservations).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservas de la mesa", reservations)
}

// GetReservationByID -> detail with client attached.
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var reservation models.Reservation
	if err := rc.DB.Preload("Client").Preload("Table").Preload("Slot").
		First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de reserva", reservation)
}

// GetClientHistory -> every reservation a client has had, newest first.
func (rc *ReservationController) GetClientHistory(c *gin.Context) {
	clientID, ok := parseID(c, "cliente_id")
	if !ok {
		return
	}

	var reservations []models.Reservation
	if err := rc.DB.Preload("Slot").Preload("Table").
		Where("cliente_id = ?", clientID).
		Order("fecha_reserva DESC").
		Find(&reservations).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Historial de reservas del cliente", reservations)
}

// UpdateReservation -> full-record replace; absent nullable fields unset
// their columns.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ClientID  *uint   `json:"cliente_id"`
		TableID   *uint   `json:"mesa_id"`
		SlotID    *uint   `json:"horario_id"`
		Date      string  `json:"fecha_reserva" binding:"required"`
		PartySize int     `json:"cantidad_personas" binding:"required"`
		Notes     *string `json:"notas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.Update(id, services.UpdateIntent{
		ClientID:  req.ClientID,
		TableID:   req.TableID,
		SlotID:    req.SlotID,
		Date:      req.Date,
		PartySize: req.PartySize,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reserva actualizada", reservation)
}

// AssignTable -> put a waiting reservation onto a freed table+slot.
func (rc *ReservationController) AssignTable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		TableID uint `json:"mesa_id" binding:"required"`
		SlotID  uint `json:"horario_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.AssignTable(id, req.TableID, req.SlotID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mesa asignada a la reserva", reservation)
}

// SeatReservation -> the party sat down.
func (rc *ReservationController) SeatReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := rc.Service.MarkSeated(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reserva sentada", reservation)
}

// UpdateReservationStatus -> staff-driven status change.
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"estado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Service.SetStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Estado de reserva actualizado", reservation)
}

// ConsumeActionToken -> unauthenticated confirm/cancel link from the
// guest email. Replays succeed without re-notifying staff.
func (rc *ReservationController) ConsumeActionToken(c *gin.Context) {
	tokenStr := c.Param("token")
	if tokenStr == "" {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	reservation, action, already, err := rc.Service.ConsumeActionToken(tokenStr)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Reserva actualizada: " + action
	if already {
		message = "El enlace ya fue utilizado; la reserva no cambio"
	}
	utils.RespondJSON(c, http.StatusOK, message, reservation)
}

// DeleteReservation -> hard delete, returns the refreshed agenda for
// the reservation's date.
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	remaining, err := rc.Service.Delete(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reserva eliminada", gin.H{
		"reservas": remaining,
	})
}

// userIDFromContext reads the staff id set by the auth middleware, nil
// on public routes.
func userIDFromContext(c *gin.Context) *uint {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok {
		return nil
	}
	return &id
}
