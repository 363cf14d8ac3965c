package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type SalonController struct {
	DB *gorm.DB
}

func NewSalonController(db *gorm.DB) *SalonController {
	return &SalonController{DB: db}
}

// GetAllSalones -> active dining rooms in creation order.
func (sc *SalonController) GetAllSalones(c *gin.Context) {
	var salones []models.Salon
	if err := sc.DB.Where("esta_activo = ?", true).Order("id ASC").Find(&salones).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Lista de salones", salones)
}

// GetSalonByID
func (sc *SalonController) GetSalonByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var salon models.Salon
	if err := sc.DB.First(&salon, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de salon", salon)
}

// CreateSalon
func (sc *SalonController) CreateSalon(c *gin.Context) {
	var req struct {
		Name             string `json:"nombre" binding:"required"`
		Capacity         int    `json:"capacidad"`
		SpecialCondition bool   `json:"es_condicion_especial"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	salon := models.Salon{
		Name:             strings.TrimSpace(req.Name),
		Capacity:         req.Capacity,
		SpecialCondition: req.SpecialCondition,
		Active:           true,
	}
	if err := sc.DB.Create(&salon).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Salon %d created (%s)", salon.ID, salon.Name)
	utils.RespondJSON(c, http.StatusCreated, "Salon creado", salon)
}

// UpdateSalon -> partial update; deactivating a salon hides its tables
// from the floor view but leaves existing reservations untouched.
func (sc *SalonController) UpdateSalon(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name             *string `json:"nombre"`
		Capacity         *int    `json:"capacidad"`
		SpecialCondition *bool   `json:"es_condicion_especial"`
		Active           *bool   `json:"esta_activo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var salon models.Salon
	if err := sc.DB.First(&salon, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	if req.Name != nil {
		salon.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		salon.Capacity = *req.Capacity
	}
	if req.SpecialCondition != nil {
		salon.SpecialCondition = *req.SpecialCondition
	}
	if req.Active != nil {
		salon.Active = *req.Active
	}

	if err := sc.DB.Save(&salon).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Salon actualizado", salon)
}
