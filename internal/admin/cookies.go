package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/config"
)

type CookiesProcessor struct {
	name      string
	path      string
	domain    string
	secure    bool
	expiresIn time.Duration
}

func NewCookiesProcessor(conf config.Cookie, expiresIn time.Duration) *CookiesProcessor {
	return &CookiesProcessor{
		name:      conf.Name,
		path:      conf.Path,
		domain:    conf.Domain,
		secure:    conf.Secure,
		expiresIn: expiresIn,
	}
}

func (p *CookiesProcessor) NewSessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     p.name,
		Path:     p.path,
		Domain:   p.domain,
		Value:    token,
		Expires:  time.Now().Add(p.expiresIn),
		Secure:   p.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (p *CookiesProcessor) GetSessionToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(p.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (p *CookiesProcessor) ExpireSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     p.name,
		Path:     p.path,
		Domain:   p.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   p.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
