package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WaitingListController struct {
	DB *gorm.DB
}

func NewWaitingListController(db *gorm.DB) *WaitingListController {
	return &WaitingListController{DB: db}
}

var errWaitingStatus = errors.New("estado debe ser pendiente, asignada o cancelada")

func validWaitingStatus(status string) bool {
	switch status {
	case "pendiente", "asignada", "cancelada":
		return true
	}
	return false
}

// GetWaitingList -> entries for fecha (or the whole queue), oldest first.
func (wc *WaitingListController) GetWaitingList(c *gin.Context) {
	query := wc.DB.Order("created_at ASC")
	if date := c.Query("fecha"); date != "" {
		query = query.Where("fecha_reserva = ?", date)
	}

	var entries []models.WaitingEntry
	if err := query.Find(&entries).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Lista de espera", entries)
}

// CreateWaitingEntry -> queue a party with no table or slot yet.
func (wc *WaitingListController) CreateWaitingEntry(c *gin.Context) {
	var req struct {
		Date            string         `json:"fecha_reserva" binding:"required"`
		Guests          int            `json:"invitados" binding:"required"`
		FirstName       string         `json:"nombre" binding:"required"`
		LastName        string         `json:"apellido" binding:"required"`
		Phone           *string        `json:"telefono"`
		Email           *string        `json:"email"`
		ClientTags      datatypes.JSON `json:"client_tags"`
		ReservationTags datatypes.JSON `json:"reservation_tags"`
		Notes           *string        `json:"notas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry := models.WaitingEntry{
		Date:            req.Date,
		Guests:          req.Guests,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Phone:           req.Phone,
		Email:           req.Email,
		ClientTags:      req.ClientTags,
		ReservationTags: req.ReservationTags,
		Notes:           req.Notes,
		Status:          "pendiente",
	}
	if err := wc.DB.Create(&entry).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Waiting entry %d created for %s", entry.ID, entry.Date)
	utils.RespondJSON(c, http.StatusCreated, "Entrada agregada a la lista de espera", entry)
}

// UpdateWaitingEntry -> partial update of contact data, party size or
// queue status.
func (wc *WaitingListController) UpdateWaitingEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Date            *string         `json:"fecha_reserva"`
		Guests          *int            `json:"invitados"`
		FirstName       *string         `json:"nombre"`
		LastName        *string         `json:"apellido"`
		Phone           *string         `json:"telefono"`
		Email           *string         `json:"email"`
		ClientTags      *datatypes.JSON `json:"client_tags"`
		ReservationTags *datatypes.JSON `json:"reservation_tags"`
		Notes           *string         `json:"notas"`
		Status          *string         `json:"estado"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != nil && !validWaitingStatus(*req.Status) {
		utils.RespondError(c, http.StatusBadRequest, errWaitingStatus)
		return
	}

	var entry models.WaitingEntry
	if err := wc.DB.First(&entry, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	if req.Date != nil {
		entry.Date = *req.Date
	}
	if req.Guests != nil {
		entry.Guests = *req.Guests
	}
	if req.FirstName != nil {
		entry.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		entry.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		entry.Phone = req.Phone
	}
	if req.Email != nil {
		entry.Email = req.Email
	}
	if req.ClientTags != nil {
		entry.ClientTags = *req.ClientTags
	}
	if req.ReservationTags != nil {
		entry.ReservationTags = *req.ReservationTags
	}
	if req.Notes != nil {
		entry.Notes = req.Notes
	}
	if req.Status != nil {
		entry.Status = *req.Status
	}

	if err := wc.DB.Save(&entry).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Entrada de lista de espera actualizada", entry)
}

// DeleteWaitingEntry
func (wc *WaitingListController) DeleteWaitingEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res := wc.DB.Delete(&models.WaitingEntry{}, id)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Entrada eliminada de la lista de espera", gin.H{"id": id})
}
