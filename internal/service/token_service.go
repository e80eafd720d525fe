package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// 管理员会话有效期为 7 天
const sessionTTL = 7 * 24 * time.Hour

// AdminClaims 是管理员会话令牌携带的声明。
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminID 解析 Subject 中的管理员 ID，解析失败返回 0。
func (c *AdminClaims) AdminID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// TokenService 负责管理员会话令牌的签发与校验，不做任何 I/O。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService 构造 TokenService。
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: sessionTTL}
}

// Issue 签发一枚 HS256 令牌，包含管理员身份与签发/过期时间。
func (s *TokenService) Issue(adminID uint, username string) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify 校验令牌。签名或结构问题返回 ErrTokenInvalid，
// 结构合法但已过期返回 ErrTokenExpired。
func (s *TokenService) Verify(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyIgnoringExpiry 只校验签名与结构，刻意忽略过期时间。
// 用于刷新场景：刚过期的会话可以静默续期，而不必重新输入凭据。
func (s *TokenService) VerifyIgnoringExpiry(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Renew 对签名完好的令牌重新签发新的有效期，过期令牌同样可续期；
// 签名损坏一律返回 ErrTokenInvalid。
func (s *TokenService) Renew(tokenString string) (string, error) {
	claims, err := s.VerifyIgnoringExpiry(tokenString)
	if err != nil {
		return "", err
	}
	return s.Issue(claims.AdminID(), claims.Username)
}

func (s *TokenService) keyFunc(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}
