package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nexus-esports/nexushub/config"
	mw "github.com/nexus-esports/nexushub/internal/middleware"
	"github.com/nexus-esports/nexushub/pkg/token"
	"github.com/nexus-esports/nexushub/pkg/utils"
	hashutil "github.com/nexus-esports/nexushub/utils"
)

// AuthController handles admin authentication requests
type AuthController struct {
	repo AuthRepository
	cfg  *config.Config
}

// NewAuthController creates a new auth controller
func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, cfg: cfg}
}

// Login godoc
// @Summary Admin login
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Admin credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestJSON(c, "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	admin, err := ac.repo.GetAdminByEmail(email)
	if err != nil {
		utils.InternalErrorJSON(c, err)
		return
	}
	// Run the bcrypt check either way so a missing account costs the
	// same as a wrong password.
	hash := "$2a$14$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"
	if admin != nil {
		hash = admin.Password
	}
	if !hashutil.CheckPassword(hash, input.Password) || admin == nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "invalid email or password"})
		return
	}

	jwt, err := token.GenerateJWT(admin.ID, admin.Role, ac.cfg.JWT.AccessTokenSecret, ac.cfg.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		utils.InternalErrorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: jwt, Admin: *admin})
}

// Me godoc
// @Summary Current admin profile
// @Tags auth
// @Produce json
// @Success 200 {object} Admin
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
// @Security Bearer
func (ac *AuthController) Me(c *gin.Context) {
	adminID, err := mw.GetAdminIDFromContext(c)
	if err != nil {
		utils.UnauthorizedJSON(c)
		return
	}

	admin, err := ac.repo.GetAdminByID(adminID)
	if err != nil {
		utils.InternalErrorJSON(c, err)
		return
	}
	if admin == nil {
		utils.UnauthorizedJSON(c)
		return
	}
	c.JSON(http.StatusOK, admin)
}

// SeedAdmin creates the bootstrap admin account if no admins exist yet.
func SeedAdmin(repo AuthRepository, cfg *config.Config) error {
	count, err := repo.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := hashutil.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	admin := &Admin{
		Name:     "Administrator",
		Email:    strings.ToLower(cfg.Admin.Email),
		Password: hash,
		Role:     "admin",
	}
	if err := repo.CreateAdmin(admin); err != nil {
		return err
	}
	log.Printf("seeded admin account %s", admin.Email)
	return nil
}
