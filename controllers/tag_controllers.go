package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/gorm"
)

type TagController struct {
	DB *gorm.DB
}

func NewTagController(db *gorm.DB) *TagController {
	return &TagController{DB: db}
}

// GetAllTags -> catalog grouped by categoria then subcategoria so the
// frontend can render the picker without regrouping.
func (tc *TagController) GetAllTags(c *gin.Context) {
	var tags []models.Tag
	if err := tc.DB.Order("categoria ASC, subcategoria ASC, nombre ASC").Find(&tags).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	grouped := make(map[string]map[string][]models.Tag)
	for _, tag := range tags {
		if grouped[tag.Category] == nil {
			grouped[tag.Category] = make(map[string][]models.Tag)
		}
		grouped[tag.Category][tag.Subcategory] = append(grouped[tag.Category][tag.Subcategory], tag)
	}
	utils.RespondJSON(c, http.StatusOK, "Catalogo de tags", grouped)
}

// CreateTag -> new label with a server-minted uuid key.
func (tc *TagController) CreateTag(c *gin.Context) {
	var req struct {
		Name        string `json:"nombre" binding:"required"`
		Category    string `json:"categoria" binding:"required"`
		Subcategory string `json:"subcategoria" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tag := models.Tag{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Subcategory: strings.TrimSpace(req.Subcategory),
	}
	if err := tc.DB.Create(&tag).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Tag %s created (%s/%s)", tag.ID, tag.Category, tag.Subcategory)
	utils.RespondJSON(c, http.StatusCreated, "Tag creado", tag)
}

// DeleteTag -> removes the catalog entry; copies already attached to
// clients or reservations stay as plain strings.
func (tc *TagController) DeleteTag(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, errMalformedID)
		return
	}

	res := tc.DB.Delete(&models.Tag{}, "id = ?", id)
	if res.Error != nil {
		respondServiceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag eliminado", gin.H{"id": id})
}
