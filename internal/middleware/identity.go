package middleware

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo.Context key JWTAuth stores the caller's id under.
const UserIDKey = "user_id"

// UserID returns the authenticated caller's id.  ok is false when no
// JWTAuth ran or the stored value is not a usable id.
func UserID(c echo.Context) (id int64, ok bool) {
	switch t := c.Get(UserIDKey).(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// subjectID reads the numeric user id out of the sub claim.  Tokens minted
// here carry it as a string; some issuers emit a JSON number.
func subjectID(claims jwt.MapClaims) (int64, bool) {
	switch v := claims["sub"].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil && n > 0
	case float64:
		return int64(v), v > 0
	}
	return 0, false
}
