package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/models"
	"github.com/nuzul/api-go/utils"
)

type AuthController struct {
	DB           *gorm.DB
	Settings     config.Settings
	GoogleConfig *config.GoogleAuth
}

func NewAuthController(db *gorm.DB, settings config.Settings) *AuthController {
	return &AuthController{
		DB:           db,
		Settings:     settings,
		GoogleConfig: config.NewGoogleConfig(),
	}
}

func validateUsernamePattern(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmed) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}

	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmed)
	if !validPattern {
		return fmt.Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}

	reserved := []string{"admin", "root", "api", "test", "demo", "user", "guest", "null", "undefined"}
	for _, word := range reserved {
		if strings.EqualFold(trimmed, word) {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}

	return nil
}

func (ac *AuthController) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.Settings.JWTSecret))
}

func (ac *AuthController) issueRefreshToken(userID uint) (string, error) {
	refresh := models.RefreshToken{
		UserID:         userID,
		Token:          uuid.New().String(),
		ExpirationDate: time.Now().Add(30 * 24 * time.Hour),
	}
	if err := ac.DB.Create(&refresh).Error; err != nil {
		return "", err
	}
	return refresh.Token, nil
}

func (ac *AuthController) respondWithTokens(c *gin.Context, status int, user *models.User) {
	accessToken, err := ac.generateAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate token"})
		return
	}
	refreshToken, err := ac.issueRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate refresh token"})
		return
	}

	c.JSON(status, StandardResponse{
		Success: true,
		Data: gin.H{
			"user":         user,
			"token":        accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not hash password"})
		return
	}
	password := string(hashed)

	user := models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(input.Email),
		Password: &password,
		Name:     input.Name,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, StandardResponse{Success: false, Message: "Username or email already taken"})
		return
	}

	ac.respondWithTokens(c, http.StatusCreated, &user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Invalid credentials"})
		return
	}

	ac.respondWithTokens(c, http.StatusOK, &user)
}

// GoogleSignIn verifies a Google id token and signs the user in, creating
// the account on first sign-in.
func (ac *AuthController) GoogleSignIn(c *gin.Context) {
	var input struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	info, err := ac.GoogleConfig.VerifyIDToken(input.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Invalid Google token"})
		return
	}

	var user models.User
	err = ac.DB.Where("google_id = ? OR email = ?", info.ID, strings.ToLower(info.Email)).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Username:      googleUsername(info),
			Email:         strings.ToLower(info.Email),
			Name:          info.Name,
			GoogleID:      &info.ID,
			Avatar:        info.Picture,
			EmailVerified: info.VerifiedEmail,
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not create account"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Sign-in failed"})
		return
	} else if user.GoogleID == nil {
		ac.DB.Model(&user).Update("google_id", info.ID)
	}

	ac.respondWithTokens(c, http.StatusOK, &user)
}

func googleUsername(info *config.GoogleUserInfo) string {
	base := strings.Split(info.Email, "@")[0]
	base = regexp.MustCompile(`[^a-zA-Z0-9_]`).ReplaceAllString(base, "")
	if base == "" || !regexp.MustCompile(`^[a-zA-Z]`).MatchString(base) {
		base = "muslim"
	}
	// Short uuid suffix keeps first-sign-in usernames collision free.
	return fmt.Sprintf("%.14s_%.5s", base, uuid.New().String())
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	var stored models.RefreshToken
	err := ac.DB.Where("token = ? AND expiration_date > ?", input.RefreshToken, time.Now()).First(&stored).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, stored.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "User not found"})
		return
	}

	// Rotate: the old token is single use.
	ac.DB.Delete(&stored)
	ac.respondWithTokens(c, http.StatusOK, &user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	user := utils.GetUser(c)
	ac.DB.Where("user_id = ?", user.UserID).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)

	var user models.User
	err := ac.DB.Preload("Country").Preload("Division").Preload("District").
		First(&user, claims.UserID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, StandardResponse{Success: false, Message: "User not found"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user})
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	CountryID  *uint  `json:"countryId"`
	DivisionID *uint  `json:"divisionId"`
	DistrictID *uint  `json:"districtId"`
}

// UpdateProfile mutates display fields and the geographic assignment used
// to scope leaderboards. Older cache rows keep the previous scope until the
// next completion refreshes them; that staleness is accepted.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.CountryID != nil {
		if err := ac.validateScopeRef(&models.Country{}, *req.CountryID); err != nil {
			c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Unknown country"})
			return
		}
		updates["country_id"] = *req.CountryID
	}
	if req.DivisionID != nil {
		if err := ac.validateScopeRef(&models.Division{}, *req.DivisionID); err != nil {
			c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Unknown division"})
			return
		}
		updates["division_id"] = *req.DivisionID
	}
	if req.DistrictID != nil {
		if err := ac.validateScopeRef(&models.District{}, *req.DistrictID); err != nil {
			c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Unknown district"})
			return
		}
		updates["district_id"] = *req.DistrictID
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Nothing to update"})
		return
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Update failed"})
		return
	}

	ac.GetProfile(c)
}

func (ac *AuthController) validateScopeRef(model interface{}, id uint) error {
	return ac.DB.First(model, id).Error
}
