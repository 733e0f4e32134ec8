package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/pragatibook/pragatibook-backend/internal/models"
	"github.com/pragatibook/pragatibook-backend/internal/services"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
	"github.com/pragatibook/pragatibook-backend/internal/utils"
)

// AuthHandler handles registration, login and the password-reset flow
type AuthHandler struct {
	store  storage.Store
	otp    *services.OTPService
	mailer services.Mailer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store storage.Store, otp *services.OTPService, mailer services.Mailer) *AuthHandler {
	return &AuthHandler{
		store:  store,
		otp:    otp,
		mailer: mailer,
	}
}

// Register creates a new account and returns it with a session token
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err, "Name, email, and password are required"),
		})
	}

	if _, err := h.store.GetUserByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User with this email already exists",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	user, err := h.store.CreateUser(&models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register user",
		})
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user.ToResponse(),
		"token": token,
	})
}

// Login authenticates by email and password
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err, "Email and password are required"),
		})
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user.ToResponse(),
		"token": token,
	})
}

// ForgotPassword issues a reset code and emails it to the account owner.
// If the email cannot be delivered the freshly saved code is discarded, so
// no live code ever exists that the user never received.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err, "Email is required"),
		})
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	code, err := h.otp.Generate()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate OTP",
		})
	}

	if err := h.otp.Save(req.Email, code); err != nil {
		log.Printf("Error saving OTP: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate OTP",
		})
	}

	if err := h.mailer.SendOTPEmail(req.Email, code, user.Name); err != nil {
		log.Printf("Error sending OTP email: %v", err)
		// Roll back so no unreachable code stays live
		if rbErr := h.store.DeleteOTPsByEmail(req.Email); rbErr != nil {
			log.Printf("Error rolling back OTP after send failure: %v", rbErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send OTP email",
		})
	}

	// Opportunistic cleanup; correctness never depends on it
	if err := h.otp.SweepExpired(); err != nil {
		log.Printf("Error cleaning up expired OTPs: %v", err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent successfully to your email",
		"email":   req.Email,
	})
}

// VerifyOTP checks a submitted reset code. Wrong, expired and already-used
// codes all get the same answer.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req models.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err, "Email and OTP are required"),
		})
	}

	ok, err := h.otp.Verify(req.Email, req.OTP)
	if err != nil {
		log.Printf("Error verifying OTP: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or expired OTP",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "OTP verified successfully",
		"verified": true,
	})
}

// ResetPassword changes the password behind a verified, unexpired code and
// consumes the code. The verified gate is checked here, not cached from the
// earlier verify call.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationMessage(err, "Email and new password are required"),
		})
	}

	verified, err := h.otp.IsVerified(req.Email)
	if err != nil {
		log.Printf("Error checking OTP verification: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if !verified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "OTP not verified. Please verify OTP first.",
		})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if err := h.store.UpdateUserPassword(req.Email, hashed); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if err := h.otp.Consume(req.Email); err != nil {
		log.Printf("Error consuming verified OTP: %v", err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}
