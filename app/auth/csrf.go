package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/angelofallars/htmx-go"
	"github.com/angelofallars/rentbill/app/event"
	"github.com/angelofallars/rentbill/internal/header"
	"github.com/angelofallars/rentbill/internal/status"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

var ErrCSRFTokenMissing = errors.New("CSRF token not found")

// CSRF issues a per-browser token in a cookie and checks that requests
// echo it back, either in the X-CSRFToken header or, for plain form
// posts, in the csrfmiddlewaretoken field.
type CSRF struct {
	cookieName string
}

func NewCSRF(cookieName string) *CSRF {
	return &CSRF{cookieName: cookieName}
}

// Issue makes sure the client holds a token cookie and exposes the
// token to the rest of the request through the context.
func (c *CSRF) Issue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := c.cookieToken(r)
		if token == "" {
			token = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     c.cookieName,
				Value:    token,
				Path:     "/",
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey, token)))
	})
}

// Require rejects requests whose token does not match the token
// cookie. The X-CSRFToken header is checked first; without it the form
// field is used, which parses the body into r.PostForm.
func (c *CSRF) Require(f http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := c.cookieToken(r)
		sent := r.Header.Get(header.CSRFToken)
		if sent == "" {
			sent = r.PostFormValue(status.TokenField)
		}

		if cookie == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(sent)) != 1 {
			const message = "CSRF verification failed. Reload the page and try again."

			if htmx.IsHTMX(r) {
				_ = htmx.NewResponse().
					StatusCode(http.StatusForbidden).
					Reswap(htmx.SwapNone).
					AddTrigger(event.TriggerSetErrMessage(message)).
					Write(w)
				return
			}

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, status.Response{Success: false, Error: message})
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), csrfKey, cookie))

		f(w, r)
	}
}

func (c *CSRF) cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetCSRFToken returns the token placed in c by [CSRF.Issue] or
// [CSRF.Require].
func GetCSRFToken(c context.Context) (string, error) {
	token, ok := c.Value(csrfKey).(string)
	if !ok || token == "" {
		return "", ErrCSRFTokenMissing
	}
	return token, nil
}

type key struct{}

var csrfKey = key{}
