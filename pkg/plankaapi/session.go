package plankaapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const accessTokensPath = "/api/access-tokens"

// Session holds the access token for one client. The token is obtained on
// first use and kept for the lifetime of the process; it is never refreshed.
//
// Two goroutines racing on first use may both log in. The last token stored
// wins and either is valid.
type Session struct {
	client   *Client
	email    string
	password string
	token    atomic.Pointer[string]
}

func newSession(c *Client, email, password string) *Session {
	return &Session{client: c, email: email, password: password}
}

// Token returns the cached token, logging in if there is none. A failed
// login caches nothing, so the next call tries again.
func (s *Session) Token(ctx context.Context) (string, error) {
	if t := s.token.Load(); t != nil {
		return *t, nil
	}
	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}
	s.token.Store(&token)
	return token, nil
}

type accessTokenRequest struct {
	EmailOrUsername string
	Password        string
}

func (r accessTokenRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("emailOrUsername")
	e.Str(r.EmailOrUsername)
	e.FieldStart("password")
	e.Str(r.Password)
	e.ObjEnd()
}

func (s *Session) login(ctx context.Context) (string, error) {
	if s.email == "" || s.password == "" {
		return "", &AuthenticationError{Err: errors.New("PLANKA_AGENT_EMAIL and PLANKA_AGENT_PASSWORD must be set")}
	}

	p, err := s.client.Do(ctx, accessTokensPath, RequestOptions{
		Method:   http.MethodPost,
		Body:     accessTokenRequest{EmailOrUsername: s.email, Password: s.password},
		SkipAuth: true,
	})
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}

	item, found, err := member(p.Body, "item")
	if err != nil {
		return "", &AuthenticationError{Err: errors.Wrap(err, "decode access token")}
	}
	var token string
	if found {
		if err := json.Unmarshal(item, &token); err != nil {
			return "", &AuthenticationError{Err: errors.Wrap(err, "decode access token")}
		}
	}
	if token == "" {
		return "", &AuthenticationError{Err: errors.New("access token missing from response")}
	}

	s.inspect(token)
	return token, nil
}

// inspect logs what the token says about itself. Planka issues JWTs, but
// nothing depends on that.
func (s *Session) inspect(token string) {
	logger := s.client.logger
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		logger.Info("authenticated with Planka")
		return
	}

	fields := []zap.Field{}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fields = append(fields, zap.String("subject", sub))
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fields = append(fields, zap.Time("expires_at", exp.Time))
		if exp.Time.Before(s.client.now()) {
			logger.Warn("Planka issued an already expired access token", fields...)
			return
		}
	}
	logger.Info("authenticated with Planka", fields...)
}
