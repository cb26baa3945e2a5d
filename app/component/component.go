// Package component holds the page shell shared by every full-page
// response.
package component

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"
	"github.com/angelofallars/rentbill/app/auth"
	"github.com/angelofallars/rentbill/internal/header"
)

// Buffered returns a component that renders into a pooled buffer and
// copies it to the output only once render has succeeded, so a failed
// render never leaves half a page behind.
func Buffered(render func(ctx context.Context, buf *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		buf := templ.GetBuffer()
		defer templ.ReleaseBuffer(buf)

		if err := render(ctx, buf); err != nil {
			return err
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

// FullPage wraps body in the document shell. Every htmx request made
// from the page carries the CSRF token issued for the request.
// attrs are added to the body element, typically event listeners.
func FullPage(title string, body templ.Component, attrs ...templ.Attributes) templ.Component {
	return Buffered(func(ctx context.Context, buf *bytes.Buffer) error {
		token, _ := auth.GetCSRFToken(ctx)
		headers, err := json.Marshal(map[string]string{header.CSRFToken: token})
		if err != nil {
			return err
		}

		buf.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		buf.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		buf.WriteString(`<title>`)
		buf.WriteString(templ.EscapeString(title))
		buf.WriteString(`</title>`)
		buf.WriteString(`<link rel="stylesheet" href="/static/style.css">`)
		buf.WriteString(`<script src="https://unpkg.com/htmx.org@1.9.10"></script>`)
		buf.WriteString(`<script defer src="https://unpkg.com/alpinejs@3.13.5/dist/cdn.min.js"></script>`)
		buf.WriteString(`</head><body hx-headers="`)
		buf.WriteString(templ.EscapeString(string(headers)))
		buf.WriteString(`" x-data="{ errMessage: &#39;&#39; }"`)
		for _, a := range attrs {
			if err := templ.RenderAttributes(ctx, buf, a); err != nil {
				return err
			}
		}
		buf.WriteString(`><p class="error" x-show="errMessage" x-text="errMessage"></p><main>`)
		if err := body.Render(ctx, buf); err != nil {
			return err
		}
		buf.WriteString(`</main></body></html>`)
		return nil
	})
}
