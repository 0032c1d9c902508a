package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// OrderLine is a single purchased item rendered in the confirmation email.
type OrderLine struct {
	Name      string `json:"Name"`
	Qty       int    `json:"Qty"`
	UnitPrice string `json:"UnitPrice"`
	LineTotal string `json:"LineTotal"`
}

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`

	AppName    string `json:"AppName"`
	SupportURL string `json:"SupportURL"`

	// Order confirmation fields
	OrderID    string      `json:"OrderID"`
	OrderTotal string      `json:"OrderTotal"`
	PlacedAt   string      `json:"PlacedAt"`
	Lines      []OrderLine `json:"Lines"`
	ShipTo     string      `json:"ShipTo"`
	OrdersURL  string      `json:"OrdersURL"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// ---- Template names ----

const (
	OrderConfirmation = "order_confirmation"
	Welcome           = "welcome"
)

// renderFile loads and renders a single template file from the embedded FS.
// isHTML indicates whether to use html/template (true) or text/template (false).
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given base name.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

// RenderFromMap decodes a generic job payload into EmailData and renders.
func RenderFromMap(name string, data map[string]any) (string, string, string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal data: %w", err)
	}
	var d EmailData
	if err := json.Unmarshal(b, &d); err != nil {
		return "", "", "", fmt.Errorf("decode data: %w", err)
	}
	return Render(name, d)
}
