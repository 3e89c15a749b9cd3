package mockapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/api/dto"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// Handlers serves the Sentimenta routes the client consumes.
type Handlers struct {
	data       *Fixtures
	tokens     *TokenManager
	cookieName string
	logger     *zap.Logger
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, ok := h.data.UserByEmail(req.Email)
	if !ok || ComparePassword(user.PasswordHash, req.Password) != nil {
		h.logger.Info("login rejected", zap.String("email", req.Email))
		return apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := h.tokens.GenerateToken(strconv.Itoa(user.UID))
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: false,
		Secure:   false,
	})
	return c.JSON(dto.LoginResponse{UID: user.UID, Username: user.Username, Email: user.Email})
}

// GetMoods handles GET /api/moods/get.
func (h *Handlers) GetMoods(c *fiber.Ctx) error {
	uid, err := principalUID(c)
	if err != nil {
		return err
	}
	return c.JSON(h.data.Moods(uid))
}

// GetAdvice handles GET /api/advice. With ?date=YYYY-MM-DD it returns a single entry.
func (h *Handlers) GetAdvice(c *fiber.Ctx) error {
	uid, err := principalUID(c)
	if err != nil {
		return err
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		return c.JSON(h.data.Advice(uid))
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return apperrors.NewValidationError("date must be YYYY-MM-DD", map[string]any{"date": dateStr})
	}
	advice, ok := h.data.AdviceOn(uid, date)
	if !ok {
		return apperrors.NewNotFound("advice", map[string]any{"date": dateStr})
	}
	return c.JSON(advice)
}

// GetUser handles GET /api/user/get.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, ok := h.data.UserByID(principal.UserID)
	if !ok {
		return apperrors.NewNotFound("user", nil)
	}
	return c.JSON(user)
}

// GetStatus handles GET /api/status.
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Status: "ok"})
}

func principalUID(c *fiber.Ctx) (int, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return 0, apperrors.NewUnauthorized("authentication required")
	}
	uid, err := strconv.Atoi(principal.UserID)
	if err != nil {
		return 0, apperrors.NewUnauthorized("invalid subject")
	}
	return uid, nil
}
