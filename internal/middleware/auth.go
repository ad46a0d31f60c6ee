package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errMalformedAuthHeader = errors.New("authorization header must be Bearer {token}")

// AuthMiddleware validates the admin access token and stores the admin id and ledger session token
// in the request context, where GetActorFromContext picks them up.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn("Rejected request without bearer token", slog.String("error", err.Error()))
			abortUnauthorized(c, err.Error())
			return
		}

		claims, err := utils.ParseAndValidateJWT(raw, jwtSecret)
		if err != nil {
			logger.Warn("Invalid access token", slog.String("error", err.Error()))
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				abortUnauthorized(c, "Token has expired")
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				abortUnauthorized(c, "Token not valid yet")
			default:
				abortUnauthorized(c, "Invalid token")
			}
			return
		}
		if claims.Subject == "" {
			logger.Error("Access token has no subject")
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, ledgerTokenCtxKey, claims.LedgerToken)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errMalformedAuthHeader
	}
	return strings.TrimSpace(token), nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
