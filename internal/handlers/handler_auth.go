package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles admin session requests. Credentials are owned by the ledger service.
type authHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newAuthHandler(ss portssvc.SessionSvcFacade) *authHandler {
	return &authHandler{sessionService: ss}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvcFacade, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(ss)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimit, h.login)
		auth.POST("/register", loginLimit, h.register)
	}
}

// registerSessionRoutes sets up the routes that need an authenticated admin.
func registerSessionRoutes(rg *gin.RouterGroup, ss portssvc.SessionSvcFacade) {
	h := newAuthHandler(ss)

	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/balance", h.balance)
}

// login godoc
// @Summary Admin login
// @Description Checks credentials against the ledger service and returns a local JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", ErrorKind: "validation"})
		return
	}

	resp, err := h.sessionService.Login(c.Request.Context(), req)
	if err != nil {
		if statusForError(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password", ErrorKind: "unauthorized"})
			return
		}
		respondError(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// register godoc
// @Summary Register an admin
// @Description Creates the account in the ledger service.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.sessionService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Admin registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, user)
}

// logout godoc
// @Summary Admin logout
// @Description Ends the ledger service session behind the current token.
// @Tags auth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.sessionService.Logout(c.Request.Context(), actor); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.Status(http.StatusNoContent)
}

// balance godoc
// @Summary Ledger balance of the current admin
// @Tags auth
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/balance [get]
func (h *authHandler) balance(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	balance, err := h.sessionService.Balance(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to fetch balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}
