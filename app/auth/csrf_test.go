package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/internal/header"
	"github.com/angelofallars/rentbill/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoToken(w http.ResponseWriter, r *http.Request) {
	token, err := auth.GetCSRFToken(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(token))
}

func TestIssueSetsCookieOnce(t *testing.T) {
	csrf := auth.NewCSRF("csrftoken")
	h := csrf.Issue(http.HandlerFunc(echoToken))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "csrftoken", cookies[0].Name)
	assert.Equal(t, cookies[0].Value, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, cookies[0].Value, rec.Body.String())
}

func TestRequire(t *testing.T) {
	csrf := auth.NewCSRF("csrftoken")
	h := csrf.Require(echoToken)

	tests := []struct {
		name     string
		cookie   string
		header   string
		field    string
		htmx     bool
		wantCode int
	}{
		{name: "matching", cookie: "abc", header: "abc", wantCode: http.StatusOK},
		{name: "no cookie", header: "abc", wantCode: http.StatusForbidden},
		{name: "no header", cookie: "abc", wantCode: http.StatusForbidden},
		{name: "mismatch", cookie: "abc", header: "abd", wantCode: http.StatusForbidden},
		{name: "mismatch htmx", cookie: "abc", header: "x", htmx: true, wantCode: http.StatusForbidden},
		{name: "form field", cookie: "abc", field: "abc", wantCode: http.StatusOK},
		{name: "form field mismatch", cookie: "abc", field: "abd", wantCode: http.StatusForbidden},
		{name: "header checked before field", cookie: "abc", header: "abd", field: "abc", wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := url.Values{}
			if tt.field != "" {
				body.Set(status.TokenField, tt.field)
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "csrftoken", Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(header.CSRFToken, tt.header)
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}

			rec := httptest.NewRecorder()
			h(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			switch {
			case tt.wantCode == http.StatusOK:
				assert.Equal(t, tt.cookie, rec.Body.String())
			case tt.htmx:
				assert.Contains(t, rec.Header().Get("HX-Trigger"), "set-err-message")
			default:
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestGetCSRFTokenMissing(t *testing.T) {
	_, err := auth.GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, auth.ErrCSRFTokenMissing)
}
