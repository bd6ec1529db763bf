//go:generate go run go.uber.org/mock/mockgen -source=token.go -destination=../mocks/mock_token_service.go -package=mocks
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"chat-app/domain"
)

// ITokenService is the token port: it issues a bearer token scoped to a
// user's identity and validates tokens presented later.
type ITokenService interface {
	Issue(user domain.User) (string, error)
	Validate(tokenString string) (*CustomClaims, error)
}

// CustomClaims is the payload carried inside the JWT.
type CustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens. The secret comes from configuration,
// never from source.
type JWTService struct {
	secret   []byte
	duration time.Duration
}

func NewJWTService(secret []byte, duration time.Duration) *JWTService {
	return &JWTService{secret: secret, duration: duration}
}

func (s *JWTService) Issue(user domain.User) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "chat-app",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// SubjectID extracts the user identity carried by the claims.
func (c *CustomClaims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
