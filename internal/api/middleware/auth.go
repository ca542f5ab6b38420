package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/recipe-social/pkg/response"
)

const actorKey = "actor_id"

// Authenticator 校验 HS256 bearer token；签发由账户服务负责
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Parse 返回 token 中 sub 声明的用户 ID
func (a *Authenticator) Parse(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[7:]), true
}

// RequireAuth 没有合法 token 时返回 401
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		actorID, err := a.Parse(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(actorKey, actorID)
		c.Next()
	}
}

// OptionalAuth 有合法 token 时设置当前用户，否则按匿名处理
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			if actorID, err := a.Parse(token); err == nil {
				c.Set(actorKey, actorID)
			}
		}
		c.Next()
	}
}

// ActorID 当前请求的用户 ID，匿名为空
func ActorID(c *gin.Context) string {
	return c.GetString(actorKey)
}
