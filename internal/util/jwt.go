package util

import (
	"errors"
	"time"

	"portfolio_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserKey 认证中间件写入 gin context 的键
const ContextUserKey = "user"

// tokenIssuer 签发方标识，写入 iss 便于排查多服务混用的 token
const tokenIssuer = "portfolio-backend"

var errInvalidClaims = errors.New("token claims 类型不合法")

// Claims 业务自定义载荷，角色随 token 下发避免每次请求查库
type Claims struct {
	UserID uint           `json:"user_id"`
	Role   model.UserRole `json:"role"`
	Email  string         `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT 为用户签发 HS256 token，有效期由配置决定
func GenerateJWT(user *model.User, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseJWT 校验签名与有效期并还原 Claims
// 显式限定 HS256，防止算法替换类伪造
func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidClaims
	}
	return claims, nil
}

// GetUserFromContext 取出中间件装载的 Claims，未认证请求返回 nil
func GetUserFromContext(c *gin.Context) *Claims {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
