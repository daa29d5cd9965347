package handlers

import (
	"crypto/subtle"
	stderrors "errors"
	"net/http"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// OAuthSecretHeader carries the secret shared with the trusted frontend that
// completes external provider sign-ins.
const OAuthSecretHeader = "X-OAuth-Secret"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
	oauthSecret string
}

// NewAuthHandler creates a new authentication handler. An empty oauthSecret
// disables the OAuth sign-in endpoint.
func NewAuthHandler(authService services.AuthServiceInterface, oauthSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauthSecret: oauthSecret,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account with email and password. The account starts with the default categories.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "User created with tokens"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001 or VALIDATION_009"
// @Failure 409 {object} errors.ErrorResponse "Email already registered - USER_002"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		if stderrors.Is(err, services.ErrUserAlreadyExists) {
			return SendError(c, errors.UserAlreadyExists)
		}
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate with email and password, receive JWT access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 401 {object} errors.ErrorResponse "Invalid credentials - AUTH_001"
// @Failure 403 {object} errors.ErrorResponse "Account locked - AUTH_006, or external sign-in only - AUTH_007"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrAccountLocked):
			return SendError(c, errors.AuthAccountLocked)
		case stderrors.Is(err, services.ErrInvalidCredentials):
			return SendError(c, errors.AuthInvalidCredentials)
		case stderrors.Is(err, services.ErrPasswordNotSet):
			return SendError(c, errors.AuthPasswordNotSet)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// OAuthLogin signs in a user the frontend authenticated with an external
// provider. The request must carry the shared secret header.
// @Summary OAuth sign-in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param X-OAuth-Secret header string true "Shared frontend secret"
// @Param request body dto.OAuthLoginRequest true "Provider account"
// @Success 200 {object} dto.AuthResponse "Signed in"
// @Failure 403 {object} errors.ErrorResponse "Bad secret - AUTH_005"
// @Failure 404 {object} errors.ErrorResponse "OAuth disabled - SYSTEM_007"
// @Router /auth/oauth [post]
func (h *AuthHandler) OAuthLogin(c echo.Context) error {
	if h.oauthSecret == "" {
		return SendError(c, errors.SystemFeatureDisabled)
	}

	provided := c.Request().Header.Get(OAuthSecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.oauthSecret)) != 1 {
		return SendError(c, errors.AuthInsufficientPermission)
	}

	var req dto.OAuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	resp, err := h.authService.OAuthLogin(c.Request().Context(), &req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidOAuthRequest) {
			return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair. The presented refresh token is revoked.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse "Token refreshed successfully"
// @Failure 401 {object} errors.ErrorResponse "Invalid refresh token - AUTH_004"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest

	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	tokens, err := h.authService.RefreshTokens(c.Request().Context(), req.RefreshToken, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidRefreshToken) {
			return SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid or expired refresh token"))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Blacklist the access token and revoke every refresh token of the user.
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse "Logout successful"
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002 or AUTH_004"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return SendError(c, errors.AuthMissingToken)
	}

	scheme, accessToken, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || accessToken == "" {
		return SendError(c, errors.AuthInvalidTokenFormat)
	}

	if err := h.authService.Logout(c.Request().Context(), accessToken, getClientIP(c), c.Request().UserAgent()); err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}
