package admin

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionTTL is how long an admin session lives.
const SessionTTL = 7 * 24 * time.Hour

var ErrSessionRevoked = errors.New("session revoked or expired")

// SessionStore issues signed session tokens and remembers which of them are
// still live. A token is accepted only while its jti is in the registry.
type SessionStore struct {
	mu     sync.Mutex
	secret []byte
	ttl    time.Duration
	live   map[string]time.Time
	now    func() time.Time
}

// NewSessionStore signs tokens with secret. An empty secret is replaced by
// random bytes, which invalidates sessions on restart.
func NewSessionStore(secret string) (*SessionStore, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}
	return &SessionStore{
		secret: key,
		ttl:    SessionTTL,
		live:   make(map[string]time.Time),
		now:    time.Now,
	}, nil
}

// SigningKey is the HS256 key for the jwt middleware.
func (s *SessionStore) SigningKey() []byte { return s.secret }

// Issue creates and registers a new session, returning the signed token and
// its expiry.
func (s *SessionStore) Issue() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"jti": jti,
		"sub": "admin",
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	s.mu.Lock()
	s.sweepLocked(now)
	s.live[jti] = exp
	s.mu.Unlock()
	return signed, exp, nil
}

func (s *SessionStore) Valid(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.live[jti]
	if !ok {
		return false
	}
	if !s.now().Before(exp) {
		delete(s.live, jti)
		return false
	}
	return true
}

func (s *SessionStore) Revoke(jti string) {
	s.mu.Lock()
	delete(s.live, jti)
	s.mu.Unlock()
}

// RevokeToken revokes the session behind a signed token. Tokens that do not
// verify are ignored.
func (s *SessionStore) RevokeToken(token string) {
	if token == "" {
		return
	}
	jti, err := s.parse(token)
	if err != nil {
		return
	}
	s.Revoke(jti)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.live)
}

func (s *SessionStore) parse(token string) (string, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	return jtiFromToken(tok)
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for jti, exp := range s.live {
		if !now.Before(exp) {
			delete(s.live, jti)
		}
	}
}

func jtiFromToken(tok *jwt.Token) (string, error) {
	if tok == nil {
		return "", ErrSessionRevoked
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrSessionRevoked
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", ErrSessionRevoked
	}
	return jti, nil
}
