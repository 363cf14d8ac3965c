package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/controllers"
	"github.com/pandawok/reservas-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBlockRouter(db *gorm.DB) *gin.Engine {
	ctrl := controllers.NewBlockController(db, services.NewBlockService(db))
	router := gin.New()
	router.POST("/bloqueos", ctrl.CreateBlock)
	router.GET("/bloqueos/mesa/:mesa_id", ctrl.GetBlocksByTable)
	router.GET("/bloqueos/salon/:salon_id", ctrl.GetBlocksBySalon)
	router.DELETE("/bloqueos/:id", ctrl.RemoveBlock)
	return router
}

func TestBlockLifecycleEndpoint(t *testing.T) {
	db := setupTestDB(t)
	table := seedSalonAndTable(t, db, "7")
	router := setupBlockRouter(db)

	payload := map[string]interface{}{
		"mesa_id":     table.ID,
		"fecha":       "2031-04-12",
		"hora_inicio": "18:00",
		"hora_fin":    "20:00",
	}
	w := postJSON(t, router, "POST", "/bloqueos", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	blockID := response["data"].(map[string]interface{})["id"].(float64)

	url := fmt.Sprintf("/bloqueos/mesa/%d?fecha=2031-04-12", table.ID)
	req, _ := http.NewRequest("GET", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"], 1)

	url = fmt.Sprintf("/bloqueos/salon/%d?fecha=2031-04-12", table.SalonID)
	req, _ = http.NewRequest("GET", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/bloqueos/%d", int(blockID)), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second delete is a 404, not silent success.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockEndpointValidation(t *testing.T) {
	db := setupTestDB(t)
	table := seedSalonAndTable(t, db, "7")
	router := setupBlockRouter(db)

	// Inverted range.
	w := postJSON(t, router, "POST", "/bloqueos", map[string]interface{}{
		"mesa_id": table.ID, "fecha": "2031-04-12",
		"hora_inicio": "20:00", "hora_fin": "18:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Start already in the past.
	w = postJSON(t, router, "POST", "/bloqueos", map[string]interface{}{
		"mesa_id": table.ID, "fecha": "2020-01-01",
		"hora_inicio": "18:00", "hora_fin": "20:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown table.
	w = postJSON(t, router, "POST", "/bloqueos", map[string]interface{}{
		"mesa_id": 9999, "fecha": "2031-04-12",
		"hora_inicio": "18:00", "hora_fin": "20:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
