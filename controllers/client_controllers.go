package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClientController struct {
	DB      *gorm.DB
	Service *services.ClientService
}

func NewClientController(db *gorm.DB, service *services.ClientService) *ClientController {
	return &ClientController{DB: db, Service: service}
}

// GetAllClients -> registry listing ordered by name.
func (cc *ClientController) GetAllClients(c *gin.Context) {
	var clients []models.Client
	if err := cc.DB.Order("nombre ASC, apellido ASC").Find(&clients).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Lista de clientes", clients)
}

// GetClientByID
func (cc *ClientController) GetClientByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de cliente", client)
}

// CreateClient -> explicit staff-side creation; unlike the reservation
// upsert this may set the registry-owned flags directly.
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req struct {
		FirstName     string         `json:"nombre" binding:"required"`
		LastName      string         `json:"apellido" binding:"required"`
		Email         string         `json:"correo_electronico" binding:"required,email"`
		Phone         string         `json:"telefono" binding:"required"`
		IsFrequent    bool           `json:"es_frecuente"`
		IsBlacklisted bool           `json:"en_lista_negra"`
		Notes         *string        `json:"notas"`
		Tags          datatypes.JSON `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client := models.Client{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		IsFrequent:    req.IsFrequent,
		IsBlacklisted: req.IsBlacklisted,
		Notes:         req.Notes,
		Tags:          req.Tags,
	}
	if err := cc.DB.Create(&client).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Client %d created (%s)", client.ID, client.Email)
	utils.RespondJSON(c, http.StatusCreated, "Cliente creado", client)
}

// UpdateClient -> partial update, absent fields keep their value.
func (cc *ClientController) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		FirstName     *string         `json:"nombre"`
		LastName      *string         `json:"apellido"`
		Email         *string         `json:"correo_electronico"`
		Phone         *string         `json:"telefono"`
		IsFrequent    *bool           `json:"es_frecuente"`
		IsBlacklisted *bool           `json:"en_lista_negra"`
		Notes         *string         `json:"notas"`
		Tags          *datatypes.JSON `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var client models.Client
	if err := cc.DB.First(&client, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}

	if req.FirstName != nil {
		client.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		client.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.IsFrequent != nil {
		client.IsFrequent = *req.IsFrequent
	}
	if req.IsBlacklisted != nil {
		client.IsBlacklisted = *req.IsBlacklisted
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	if req.Tags != nil {
		client.Tags = *req.Tags
	}

	if err := cc.DB.Save(&client).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cliente actualizado", client)
}

// DeleteClient -> cascades to the client's reservations in one
// transaction.
func (cc *ClientController) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := cc.Service.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
