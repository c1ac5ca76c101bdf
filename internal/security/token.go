package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
	ErrNoProperty     = errors.New("token carries no property")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const accessAudience = "hotel-api"

// StaffClaims identifies a staff member and the property the session is bound to
type StaffClaims struct {
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	Type       TokenType `json:"type"`
	Roles      []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager validates tokens issued by the authentication collaborator.
// GenerateAccessToken exists for local tooling and tests.
type TokenManager interface {
	GenerateAccessToken(userID, propertyID int64, roles []string) (string, error)
	ValidateToken(tokenString string) (*StaffClaims, error)
}

type tokenManager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewTokenManager(secret, issuer string, expiry time.Duration) TokenManager {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
	}
}

func (m *tokenManager) GenerateAccessToken(userID, propertyID int64, roles []string) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		UserID:     userID,
		PropertyID: propertyID,
		Type:       TokenTypeAccess,
		Roles:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken checks signature, expiry, audience and token type, and
// requires a property claim.
func (m *tokenManager) ValidateToken(tokenString string) (*StaffClaims, error) {
	opts := []jwt.ParserOption{jwt.WithAudience(accessAudience)}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*StaffClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	// Populate UserID from Subject if it was lost
	if claims.UserID == 0 && claims.Subject != "" {
		claims.UserID, _ = strconv.ParseInt(claims.Subject, 10, 64)
	}
	if claims.PropertyID <= 0 {
		return nil, ErrNoProperty
	}
	return claims, nil
}
