package auth

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
)

type AuthUseCase interface {
	RequestMagicLink(ctx context.Context, email string)
	ForgotPassword(ctx context.Context, email string)
	Login(ctx context.Context, req domain.LoginRequest) (*commerce.Response, error)
	LoginWithMagicLink(ctx context.Context, req domain.MagicLinkLogin) (*commerce.Response, error)
	SetPassword(ctx context.Context, req domain.SetPasswordRequest) (*commerce.Response, error)
}

type Upstream interface {
	Do(ctx context.Context, req commerce.Request) (*commerce.Response, error)
}

type Mailer interface {
	SendAccessLink(ctx context.Context, to, link string, reset bool) error
}

type AuthService struct {
	upstream Upstream
	mailer   Mailer
	siteURL  string
}

func NewAuthService(upstream Upstream, mailer Mailer, siteURL string) *AuthService {
	return &AuthService{
		upstream: upstream,
		mailer:   mailer,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

// RequestMagicLink mails a login link when the upstream issues a token. The
// outcome is never reported so callers cannot probe which emails exist.
func (s *AuthService) RequestMagicLink(ctx context.Context, email string) {
	s.issueLink(ctx, "/requestMagicLink", "/login", email, false)
}

// ForgotPassword behaves like RequestMagicLink but links to the password form.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	s.issueLink(ctx, "/forgotPassword", "/crear-password", email, true)
}

func (s *AuthService) issueLink(ctx context.Context, upstreamPath, sitePath, email string, reset bool) {
	resp, err := s.upstream.Do(ctx, commerce.Request{
		Method: http.MethodPost,
		Path:   upstreamPath,
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		log.Printf("[auth] %s failed: %v", upstreamPath, err)
		return
	}
	if !resp.OK() || !resp.Get("success").Bool() {
		log.Printf("[auth] %s declined for %s (status %d)", upstreamPath, email, resp.Status)
		return
	}

	token := resp.Get("token").String()
	if token == "" {
		log.Printf("[auth] no token issued for %s", email)
		return
	}

	link := s.siteURL + sitePath + "?token=" + url.QueryEscape(token)
	if err := s.mailer.SendAccessLink(ctx, email, link, reset); err != nil {
		log.Printf("[auth] sending link to %s failed: %v", email, err)
	}
}

func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/login", Body: req})
}

func (s *AuthService) LoginWithMagicLink(ctx context.Context, req domain.MagicLinkLogin) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/loginWithMagicLink", Body: req})
}

func (s *AuthService) SetPassword(ctx context.Context, req domain.SetPasswordRequest) (*commerce.Response, error) {
	return s.upstream.Do(ctx, commerce.Request{Method: http.MethodPost, Path: "/validateTokenAndSetPassword", Body: req})
}

var _ AuthUseCase = (*AuthService)(nil)
