package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dreamdrape/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

// アクセストークンが運ぶ身元情報。subは発行側が10進文字列で入れる。
type tokenIdentity struct {
	UserID       int64
	Role         string
	TokenVersion int
}

// bearerAuth用のJWT検証ミドルウェア。HS256のみ受け付ける。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			token, err := jwt.Parse(raw,
				func(t *jwt.Token) (interface{}, error) {
					return []byte(cfg.JWTSecret), nil
				},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			id, err := identityFromClaims(token.Claims)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, id.UserID)
			c.Set(CtxUserRoleKey, id.Role)
			c.Set(CtxTokenVersionKey, id.TokenVersion)

			return next(c)
		}
	}
}

// Authorizationヘッダからtokenを抜く
func bearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func identityFromClaims(c jwt.Claims) (tokenIdentity, error) {
	claims, ok := c.(jwt.MapClaims)
	if !ok {
		return tokenIdentity{}, errors.New("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return tokenIdentity{}, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return tokenIdentity{}, errors.New("invalid sub claim")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		return tokenIdentity{}, errors.New("missing role claim")
	}

	//JSON経由の数値はfloat64になる
	tv, ok := claims["tv"].(float64)
	if !ok || tv < 0 {
		return tokenIdentity{}, errors.New("invalid tv claim")
	}

	return tokenIdentity{UserID: userID, Role: role, TokenVersion: int(tv)}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
