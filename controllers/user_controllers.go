package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pandawok/reservas-backend/models"
	"github.com/pandawok/reservas-backend/services"
	"github.com/pandawok/reservas-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var (
	errBadCredentials = errors.New("credenciales invalidas")
	errEmailTaken     = errors.New("el correo electronico ya esta registrado")
	errBadRole        = errors.New("rol debe ser administrador, jefe o anfitrion")
)

func validRole(role string) bool {
	switch role {
	case "administrador", "jefe", "anfitrion":
		return true
	}
	return false
}

// Register -> create a staff account. Passwords are bcrypt-hashed and
// never leave the server.
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"nombre_usuario" binding:"required"`
		LastName  string `json:"apellido_usuario" binding:"required"`
		Email     string `json:"correo_electronico" binding:"required,email"`
		Password  string `json:"contrasena" binding:"required,min=8"`
		Role      string `json:"rol" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validRole(req.Role) {
		utils.RespondError(c, http.StatusBadRequest, errBadRole)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user := models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hash),
		Role:      req.Role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errEmailTaken)
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("User %d registered (%s, %s)", user.ID, user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "Usuario registrado", user)
}

// Login -> verify credentials and hand back a signed JWT. Wrong email
// and wrong password answer identically.
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"correo_electronico" binding:"required,email"`
		Password string `json:"contrasena" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := uc.DB.Where("correo_electronico = ?", email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errBadCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errBadCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("User %d logged in", user.ID)
	utils.RespondJSON(c, http.StatusOK, "Inicio de sesion exitoso", gin.H{
		"token": token,
		"usuario": gin.H{
			"id":                 user.ID,
			"nombre_usuario":     user.FirstName,
			"apellido_usuario":   user.LastName,
			"correo_electronico": user.Email,
			"rol":                user.Role,
		},
	})
}

// GetAllUsers -> staff roster, admin-gated at the router.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("id ASC").Find(&users).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Lista de usuarios", users)
}

// GetUserByID
func (uc *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detalle de usuario", user)
}
