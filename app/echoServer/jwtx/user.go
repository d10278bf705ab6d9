// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	jwtutil "videostore/util/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// StaffKey holds the authenticated staff name in the echo context.
const StaffKey = "staff"

// StaffFromContext reads the token echo-jwt stored under "user".
func StaffFromContext(c echo.Context) (string, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return "", errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid jwt claims")
	}
	if role, _ := claims["role"].(string); role != jwtutil.RoleStaff {
		return "", errors.New("role is not staff")
	}
	if s, ok := claims["sub"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("sub missing in claims")
}

// Staff returns who is acting on the request, or "" when auth is off.
func Staff(c echo.Context) string {
	s, _ := c.Get(StaffKey).(string)
	return s
}
