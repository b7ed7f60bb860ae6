package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "cafemaemi_auth"
	adminRole         = "admin"
	sessionTokenTTL   = 12 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionClaims is the signed payload of the admin session cookie.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CredentialChecker compares a login against the one configured admin account.
type CredentialChecker struct {
	Username string
	Password string
}

func (c CredentialChecker) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	if !userOK || !passOK || c.Password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// SessionService keeps the admin flag in a browser-session cookie holding
// an HS256 token.
type SessionService struct {
	Credentials CredentialChecker
	Secret      []byte
	Secure      bool

	now func() time.Time
}

func NewSessionService(creds CredentialChecker, secret string, secure bool) *SessionService {
	return &SessionService{
		Credentials: creds,
		Secret:      []byte(secret),
		Secure:      secure,
		now:         time.Now,
	}
}

// IssueToken signs a fresh admin token.
func (s *SessionService) IssueToken() (string, error) {
	now := s.now()
	claims := &SessionClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// VerifyToken reports whether tokenStr is a valid admin token signed by this service.
func (s *SessionService) VerifyToken(tokenStr string) bool {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return false
	}
	return claims.Role == adminRole
}

// IsAuthenticated reads the session cookie of the request.
func (s *SessionService) IsAuthenticated(c *gin.Context) bool {
	tokenStr, err := c.Cookie(SessionCookieName)
	if err != nil || tokenStr == "" {
		return false
	}
	return s.VerifyToken(tokenStr)
}

// Login checks the credentials and sets the session cookie.
func (s *SessionService) Login(c *gin.Context, username, password string) error {
	if err := s.Credentials.Check(username, password); err != nil {
		return err
	}
	tokenStr, err := s.IssueToken()
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	// maxAge 0 leaves out Max-Age, so the browser drops it when the session ends.
	c.SetCookie(SessionCookieName, tokenStr, 0, "/", "", s.Secure, true)
	return nil
}

// Logout clears the session cookie.
func (s *SessionService) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", s.Secure, true)
}
