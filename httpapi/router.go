// Package httpapi exposes the authentication engine over HTTP/JSON under
// /api/auth. Every response carries a success flag; failures add a message
// and never leak internal error detail.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/4clab/labauth"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// NewRouter builds the API router over engine.
func NewRouter(engine *labauth.Engine) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", statusHandler)
	r.GET("/api/health", healthHandler(engine))

	auth := r.Group("/api/auth")
	auth.POST("/register", registerHandler(engine))
	auth.POST("/login", loginHandler(engine))
	auth.GET("/verify", verifyHandler(engine))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
		})
	})

	return r
}

func statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "lab manager auth API",
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func healthHandler(engine *labauth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := engine.Ping(requestContext(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "credential store unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func registerHandler(engine *labauth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentialsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "email and password are required")
			return
		}

		result, err := engine.Register(requestContext(c), labauth.RegisterRequest{
			Email:    body.Email,
			Password: body.Password,
			Role:     body.Role,
		})
		if err != nil {
			failFromError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "account created",
			"userId":  result.UserID,
		})
	}
}

func loginHandler(engine *labauth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body credentialsBody
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "email and password are required")
			return
		}

		result, err := engine.Login(requestContext(c), body.Email, body.Password, body.Role)
		if err != nil {
			failFromError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "login successful",
			"token":   result.Token,
			"user":    result.User,
		})
	}
}

func verifyHandler(engine *labauth.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			fail(c, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := engine.VerifyToken(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "token valid",
			"user":    claims,
		})
	}
}

func requestContext(c *gin.Context) context.Context {
	return labauth.WithClientIP(c.Request.Context(), c.ClientIP())
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// failFromError maps the engine error taxonomy onto HTTP statuses. Anything
// unrecognized is a generic 500.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, labauth.ErrMissingFields),
		errors.Is(err, labauth.ErrInvalidEmail),
		errors.Is(err, labauth.ErrPasswordPolicy),
		errors.Is(err, labauth.ErrRoleInvalid),
		errors.Is(err, labauth.ErrAccountExists):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, labauth.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, labauth.ErrRoleMismatch):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, labauth.ErrTokenInvalid):
		fail(c, http.StatusUnauthorized, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "server error")
	}
}
