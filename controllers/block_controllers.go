package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type BlockController struct {
	DB      *gorm.DB
	Service *services.BlockService
}

func NewBlockController(db *gorm.DB, service *services.BlockService) *BlockController {
	return &BlockController{DB: db, Service: service}
}

// CreateBlock -> take a table out of service for an ad-hoc time range.
func (bc *BlockController) CreateBlock(c *gin.Context) {
	var req struct {
		TableID   uint   `json:"mesa_id" binding:"required"`
		Date      string `json:"fecha" binding:"required"`
		StartTime string `json:"hora_inicio" binding:"required"`
		EndTime   string `json:"hora_fin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	block, err := bc.Service.CreateBlock(req.TableID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Bloqueo creado", block)
}

// RemoveBlock
func (bc *BlockController) RemoveBlock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := bc.Service.RemoveBlock(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bloqueo eliminado", gin.H{"id": id})
}

// GetBlocksByTable -> blocks for one table on fecha.
func (bc *BlockController) GetBlocksByTable(c *gin.Context) {
	tableID, ok := parseID(c, "mesa_id")
	if !ok {
		return
	}
	date := c.Query("fecha")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errFechaRequired)
		return
	}

	blocks, err := bc.Service.ListByTable(tableID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bloqueos de la mesa", blocks)
}

// GetBlocksBySalon -> blocks on fecha across every table of a salon, for
// the floor view.
func (bc *BlockController) GetBlocksBySalon(c *gin.Context) {
	salonID, ok := parseID(c, "salon_id")
	if !ok {
		return
	}
	date := c.Query("fecha")
	if date == "" {
		utils.RespondError(c, http.StatusBadRequest, errFechaRequired)
		return
	}

	blocks, err := bc.Service.ListBySalon(salonID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bloqueos del salon", blocks)
}
