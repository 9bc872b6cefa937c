package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"vetify-crm/config"
	"vetify-crm/models"
)

// CachedStaff es la ficha mínima del usuario que guardamos en caché para no
// golpear la base de datos en cada request.
type CachedStaff struct {
	StaffID  uint   `json:"staff_id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthMiddleware valida el JWT (cookie o header Bearer) y deja la identidad
// del usuario en el contexto de Gin.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "No se proporcionó el token de autorización")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthorized(c, "Formato inválido del header Authorization")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "Token inválido o expirado")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Claims del token inválidos")
			return
		}

		staffIDFloat, ok := claims["staff_id"].(float64)
		if !ok {
			abortUnauthorized(c, "ID de usuario inválido en el token")
			return
		}
		staffID := uint(staffIDFloat)

		cacheKey := fmt.Sprintf("staff:%d:data", staffID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var data CachedStaff
				if json.Unmarshal([]byte(cached), &data) == nil {
					setContextAndProceed(c, &data)
					return
				}
			} else if err != redis.Nil {
				slog.Error("Fallo el GET de Redis", "error", err, "staff_id", staffID)
			}
		}

		var staff models.Staff
		if err := config.DB.First(&staff, staffID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "El usuario del token ya no existe")
			return
		}

		data := CachedStaff{
			StaffID:  staff.ID,
			Login:    staff.Login,
			FullName: staff.FullName,
			Role:     staff.Role,
		}

		if config.RDB != nil {
			if jsonData, err := json.Marshal(data); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, jsonData, 10*time.Minute).Err(); err != nil {
					slog.Error("Fallo el SET de Redis", "error", err, "staff_id", staffID)
				}
			}
		}

		setContextAndProceed(c, &data)
	}
}

func setContextAndProceed(c *gin.Context, data *CachedStaff) {
	c.Set("staff_id", data.StaffID)
	c.Set("login", data.Login)
	c.Set("role", data.Role)
	c.Next()
}

// RequireRole corta el request si el usuario no tiene ninguno de los roles
// indicados. El rol admin siempre pasa.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Rol no encontrado en el contexto"})
			c.Abort()
			return
		}

		role, _ := roleValue.(string)
		if role == "admin" {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Permiso denegado"})
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
