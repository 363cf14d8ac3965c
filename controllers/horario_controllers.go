package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type HorarioController struct {
	DB           *gorm.DB
	Availability *services.AvailabilityService
}

func NewHorarioController(db *gorm.DB, availability *services.AvailabilityService) *HorarioController {
	return &HorarioController{DB: db, Availability: availability}
}

var errMesaRequired = errors.New("parametro mesa_id es obligatorio")

// GetAllSlots -> the full slot catalog, active entries first.
func (hc *HorarioController) GetAllSlots(c *gin.Context) {
	var slots []models.TimeSlot
	if err := hc.DB.Order("esta_activo DESC, hora_inicio ASC").Find(&slots).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalogo de horarios", slots)
}

// GetAvailableSlots -> catalog entries still free for mesa_id on fecha,
// both passed as query parameters.
func (hc *HorarioController) GetAvailableSlots(c *gin.Context) {
	rawTable := c.Query("mesa_id")
	if rawTable == "" {
		utils.RespondError(c, http.StatusBadRequest, errMesaRequired)
		return
	}
	tableID, err := strconv.ParseUint(rawTable, 10, 32)
	if err != nil || tableID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errMalformedID)
		return
	}

	date := c.Query("fecha")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errFechaRequired)
		return
	}

	slots, err := hc.Availability.AvailableSlots(uint(tableID), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Horarios disponibles", slots)
}
