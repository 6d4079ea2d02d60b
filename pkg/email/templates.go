package email

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// NotificationEmailData feeds the single-notification component.
type NotificationEmailData struct {
	AppName  string
	Title    string
	Message  string
	Priority string
	Actions  []ActionLink
}

// ActionLink is a call-to-action rendered as a button in the email body.
type ActionLink struct {
	Label   string
	URL     string
	Primary bool
}

// DigestEmailData feeds the digest component.
type DigestEmailData struct {
	AppName   string
	Period    string // "daily" or "weekly"
	Recipient string
	Items     []DigestItem
}

// DigestItem is one notification summarized inside a digest email.
type DigestItem struct {
	Title     string
	Message   string
	Timestamp string // preformatted in the recipient's timezone
	Type      string
	Priority  string
}

// Render takes a templ.Component and renders it to a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderNotification renders the single-notification email body.
func RenderNotification(ctx context.Context, data NotificationEmailData) (string, error) {
	body, err := Render(ctx, NotificationBody(data))
	if err != nil {
		return "", fmt.Errorf("render notification email: %w", err)
	}
	return body, nil
}

// RenderDigest renders the digest email body.
func RenderDigest(ctx context.Context, data DigestEmailData) (string, error) {
	body, err := Render(ctx, DigestBody(data))
	if err != nil {
		return "", fmt.Errorf("render digest email: %w", err)
	}
	return body, nil
}

// NotificationBody is the templ component for a single notification email.
// All dynamic values are escaped; action URLs pass through templ's URL
// sanitizer.
func NotificationBody(data NotificationEmailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><body style="font-family:sans-serif;margin:0;padding:24px;background:#f4f5f7">`)
		b.WriteString(`<div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;padding:24px">`)
		b.WriteString(`<h2 style="margin-top:0">`)
		b.WriteString(templ.EscapeString(data.Title))
		b.WriteString(`</h2><p>`)
		b.WriteString(templ.EscapeString(data.Message))
		b.WriteString(`</p>`)
		if data.Priority != "" {
			b.WriteString(`<p style="color:#6b7280;font-size:12px">Priority: `)
			b.WriteString(templ.EscapeString(data.Priority))
			b.WriteString(`</p>`)
		}
		for _, a := range data.Actions {
			style := `background:#e5e7eb;color:#111827`
			if a.Primary {
				style = `background:#2563eb;color:#ffffff`
			}
			b.WriteString(`<p><a href="`)
			b.WriteString(templ.EscapeString(string(templ.URL(a.URL))))
			b.WriteString(`" style="display:inline-block;padding:10px 18px;border-radius:6px;text-decoration:none;`)
			b.WriteString(style)
			b.WriteString(`">`)
			b.WriteString(templ.EscapeString(a.Label))
			b.WriteString(`</a></p>`)
		}
		b.WriteString(`<hr style="border:none;border-top:1px solid #e5e7eb;margin:24px 0">`)
		b.WriteString(`<p style="color:#9ca3af;font-size:12px">`)
		b.WriteString(templ.EscapeString(data.AppName))
		b.WriteString(`</p></div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// DigestBody is the templ component for a digest summary email.
func DigestBody(data DigestEmailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><body style="font-family:sans-serif;margin:0;padding:24px;background:#f4f5f7">`)
		b.WriteString(`<div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;padding:24px">`)
		b.WriteString(`<h2 style="margin-top:0">Your `)
		b.WriteString(templ.EscapeString(data.Period))
		b.WriteString(` digest</h2>`)
		if data.Recipient != "" {
			b.WriteString(`<p>Hello `)
			b.WriteString(templ.EscapeString(data.Recipient))
			b.WriteString(`,</p>`)
		}
		plural := ""
		if len(data.Items) != 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, `<p>You have %d unread notification%s:</p>`, len(data.Items), plural)
		for _, item := range data.Items {
			b.WriteString(`<div style="border-left:3px solid #2563eb;padding:4px 12px;margin:12px 0">`)
			b.WriteString(`<p style="margin:0;font-weight:bold">`)
			b.WriteString(templ.EscapeString(item.Title))
			b.WriteString(`</p><p style="margin:4px 0">`)
			b.WriteString(templ.EscapeString(item.Message))
			b.WriteString(`</p><p style="margin:0;color:#6b7280;font-size:12px">`)
			b.WriteString(templ.EscapeString(item.Timestamp))
			b.WriteString(` · `)
			b.WriteString(templ.EscapeString(item.Type))
			b.WriteString(` · `)
			b.WriteString(templ.EscapeString(item.Priority))
			b.WriteString(`</p></div>`)
		}
		b.WriteString(`<hr style="border:none;border-top:1px solid #e5e7eb;margin:24px 0">`)
		b.WriteString(`<p style="color:#9ca3af;font-size:12px">`)
		b.WriteString(templ.EscapeString(data.AppName))
		b.WriteString(`</p></div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
