package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrInvalidTokenType       = errors.New("token is not an access token")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)

// Claims carried by access tokens issued for the salary-per-hour API.
const (
	ClaimSubject = "sub"
	ClaimIsAdmin = "is_admin"
	ClaimType    = "type"
	ClaimExpiry  = "exp"
)

type Service interface {
	GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth  *jwtauth.JWTAuth
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(secretKey string, expiration time.Duration) Service {
	return &JWTService{
		tokenAuth:  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		expiration: expiration,
		now:        time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.expiration).Unix()

	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		ClaimSubject: subject,
		ClaimIsAdmin: isAdmin,
		ClaimType:    "access",
		ClaimExpiry:  expiresAt,
	})
	return token, expiresAt, err
}

// IsAdmin reports whether the claims grant write access.
func IsAdmin(claims map[string]interface{}) bool {
	v, ok := claims[ClaimIsAdmin].(bool)
	return ok && v
}

// ValidateTokenType rejects tokens minted for other purposes.
func ValidateTokenType(claims map[string]interface{}) error {
	if t, ok := claims[ClaimType].(string); ok && t != "access" {
		return ErrInvalidTokenType
	}
	return nil
}
