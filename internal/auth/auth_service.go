package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypeAccess = "access"

// AuthService 负责处理密码哈希、JWT 生成与校验。
type AuthService struct {
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	accessTokenTTL time.Duration
	now            func() time.Time
}

// AccessToken 是签发给客户端的 Bearer 令牌。
type AccessToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenClaims 表示 JWT 中的业务字段，便于中间件读取用户信息。
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewAuthService 解析 PEM 密钥并构造服务实例。
func NewAuthService(privateKeyPEM, publicKeyPEM []byte, accessTTL time.Duration) (*AuthService, error) {
	if len(privateKeyPEM) == 0 {
		return nil, errors.New("private key pem is required")
	}
	if len(publicKeyPEM) == 0 {
		return nil, errors.New("public key pem is required")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}

	return NewAuthServiceWithKeys(privateKey, publicKey, accessTTL), nil
}

// NewAuthServiceWithKeys 使用已解析的密钥构造服务实例。
func NewAuthServiceWithKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, accessTTL time.Duration) *AuthService {
	return &AuthService{
		privateKey:     privateKey,
		publicKey:      publicKey,
		accessTokenTTL: accessTTL,
		now:            time.Now,
	}
}

// IssueAccessToken 为用户签发访问令牌，jti 用于注销时加入黑名单。
func (s *AuthService) IssueAccessToken(userID uint) (AccessToken, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTokenTTL)
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := s.signClaims(claims)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Value: signed, ID: claims.ID, ExpiresAt: expiresAt}, nil
}

// ValidateToken 解析并验证 JWT，仅接受访问令牌。
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("unexpected token type: %s", claims.TokenType)
	}
	if claims.ID == "" {
		return nil, errors.New("token missing jti")
	}

	return claims, nil
}

func (s *AuthService) signClaims(claims TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// AccessTokenTTL 暴露访问令牌有效期。
func (s *AuthService) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}
