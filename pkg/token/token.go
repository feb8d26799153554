// Package token issues and verifies the HS256 tokens used for member sessions.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ClaimID carries the member identifier.
	ClaimID       = "Id"
	ClaimUsername = "username"
	ClaimRoles    = "roles"
	ClaimType     = "typ"

	typeAccess  = "access"
	typeRefresh = "refresh"

	HeaderAuthorization = "Authorization"
	HeaderRefresh       = "Refresh"
	bearerPrefix        = "Bearer "
)

var (
	ErrMissingToken = errors.New("token: missing")
	ErrInvalidToken = errors.New("token: invalid")
	ErrWrongType    = errors.New("token: unexpected token type")
)

// Claims is the verified claim set of a token.
type Claims jwt.MapClaims

// MemberID returns the numeric Id claim. ok is false when the claim is absent;
// err is set when it is present but not an integer.
func (c Claims) MemberID() (id int64, ok bool, err error) {
	raw, present := c[ClaimID]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, true, fmt.Errorf("token: non-integer id %v", v)
		}
		return int64(v), true, nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, true, err
	default:
		id, err := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		return id, true, err
	}
}

// Username returns the username claim if present.
func (c Claims) Username() string {
	s, _ := c[ClaimUsername].(string)
	return s
}

// Sub returns the registered subject claim; both token kinds carry the username there.
func (c Claims) Sub() string {
	s, _ := c["sub"].(string)
	return s
}

// Subject identity handed to the manager when issuing tokens.
type Subject struct {
	MemberID int64
	Username string
	Roles    []string
}

// Pair is an access/refresh token pair.
type Pair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccess signs an access token carrying the member Id claim.
func (m *Manager) IssueAccess(s Subject) (string, time.Time, error) {
	exp := m.now().Add(m.accessTTL)
	claims := jwt.MapClaims{
		ClaimID:       s.MemberID,
		ClaimUsername: s.Username,
		ClaimRoles:    s.Roles,
		ClaimType:     typeAccess,
	}
	tok, err := m.sign(claims, s.Username, exp)
	return tok, exp, err
}

// IssueRefresh signs a refresh token; it carries no Id claim.
func (m *Manager) IssueRefresh(s Subject) (string, error) {
	claims := jwt.MapClaims{ClaimType: typeRefresh}
	return m.sign(claims, s.Username, m.now().Add(m.refreshTTL))
}

// IssuePair signs both tokens.
func (m *Manager) IssuePair(s Subject) (Pair, error) {
	access, exp, err := m.IssueAccess(s)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.IssueRefresh(s)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

// SignClaims signs arbitrary claims with the manager key. Tests use it to
// build tokens with a missing Id claim.
func (m *Manager) SignClaims(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) sign(claims jwt.MapClaims, subject string, exp time.Time) (string, error) {
	now := m.now()
	claims["sub"] = subject
	claims["iss"] = m.issuer
	claims["iat"] = now.Unix()
	claims["exp"] = exp.Unix()
	claims["jti"] = uuid.NewString()
	return m.SignClaims(claims)
}

// Parse verifies signature, issuer and expiry and returns the claim set.
func (m *Manager) Parse(raw string) (Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Claims(claims), nil
}

// ParseRefresh verifies a refresh token.
func (m *Manager) ParseRefresh(raw string) (Claims, error) {
	claims, err := m.Parse(raw)
	if err != nil {
		return nil, err
	}
	if typ, _ := claims[ClaimType].(string); typ != typeRefresh {
		return nil, ErrWrongType
	}
	return claims, nil
}

// FromRequest extracts the raw access token. Both "Bearer <jwt>" and a bare
// "<jwt>" are accepted.
func FromRequest(r *http.Request) string {
	return Strip(r.Header.Get(HeaderAuthorization))
}

// Strip removes an optional Bearer prefix.
func Strip(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return header
}
