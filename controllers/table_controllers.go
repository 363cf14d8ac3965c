package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

var errTableInUse = errors.New("la mesa tiene reservas activas y no se puede eliminar")

// GetTablesBySalon -> active tables of one salon, ordered by the numeric
// value of numero_mesa so "10" follows "9". The +0 coercion works on
// both MySQL and the SQLite used in tests.
func (tc *TableController) GetTablesBySalon(c *gin.Context) {
	salonID, ok := parseID(c, "salon_id")
	if !ok {
		return
	}

	var tables []models.Table
	if err := tc.DB.
		Where("salon_id = ? AND esta_activa = ?", salonID, true).
		Order("numero_mesa + 0 ASC").
		Find(&tables).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mesas del salon", tables)
}

// CreateTable
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		SalonID     uint    `json:"salon_id" binding:"required"`
		TableNumber string  `json:"numero_mesa" binding:"required"`
		TableType   string  `json:"tipo_mesa"`
		Size        string  `json:"tamanio"`
		Capacity    int     `json:"capacidad"`
		PosX        float64 `json:"posX"`
		PosY        float64 `json:"posY"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var salon models.Salon
	if err := tc.DB.First(&salon, req.SalonID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	table := models.Table{
		SalonID:     req.SalonID,
		TableNumber: req.TableNumber,
		TableType:   req.TableType,
		Size:        req.Size,
		Capacity:    req.Capacity,
		Active:      true,
		PosX:        req.PosX,
		PosY:        req.PosY,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %s created in salon %d", table.TableNumber, table.SalonID)
	utils.RespondJSON(c, http.StatusCreated, "Mesa creada", table)
}

// UpdateTable -> edit the table's descriptive fields.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		TableNumber *string `json:"numero_mesa"`
		TableType   *string `json:"tipo_mesa"`
		Size        *string `json:"tamanio"`
		Capacity    *int    `json:"capacidad"`
		Active      *bool   `json:"esta_activa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.TableType != nil {
		table.TableType = *req.TableType
	}
	if req.Size != nil {
		table.Size = *req.Size
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Active != nil {
		table.Active = *req.Active
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Mesa actualizada", table)
}

// UpdateTablePosition -> floor-editor metadata only; availability logic
// never reads these.
func (tc *TableController) UpdateTablePosition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		PosX *float64 `json:"posX" binding:"required"`
		PosY *float64 `json:"posY" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	table.PosX = *req.PosX
	table.PosY = *req.PosY
	if err := tc.DB.Save(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Posicion actualizada", table)
}

// DeleteTable -> refused while non-cancelled reservations still point at
// the table; staff must move or cancel them first.
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	var active int64
	if err := tc.DB.Model(&models.Reservation{}).
		Where("mesa_id = ? AND estado <> ?", id, services.ReservationStatusCancelled).
		Count(&active).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, errTableInUse)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Mesa eliminada", gin.H{"id": id})
}
