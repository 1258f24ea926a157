// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/carehaven/carehome-admin/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"friendlyTime": friendlyTime,
		"timeTag":      timeTag,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": FormatNumber,
		"truncateText": uiutil.TruncateWithEllipsis,
		"humanize":     uiutil.Humanize,
		"badgeClass":   BadgeClass,
	}

	funcs["renderSection"] = func(view string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil || deps.ContentTemplateFor == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(view), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

func asTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(asTime(ts))
}

func timeTag(ts any) template.HTML {
	t0 := asTime(ts)
	if t0.IsZero() {
		return ""
	}
	// #nosec G203 - constructed from escaped values only
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.Local().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t0)),
	))
}

// FormatNumber formats an integer with comma separators for thousands.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	digits := strconv.FormatInt(n, 10)
	if neg {
		digits = digits[1:]
	}
	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// BadgeClass maps a status word to a pill style.
func BadgeClass(status string) string {
	switch strings.ToLower(status) {
	case "active", "hired", "yes":
		return "badge-success"
	case "inactive", "rejected", "no":
		return "badge-muted"
	case "pending", "scheduled":
		return "badge-warning"
	default:
		return "badge-info"
	}
}
