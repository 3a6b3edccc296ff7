// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/BruksfildServices01/maintenance-orders/internal/dto"
)

//go:embed templates/*.html
var files embed.FS

const timeLayout = "2006-01-02 15:04"

var statusLabels = map[string]string{
	"pending":     "Pending",
	"in_progress": "In progress",
	"completed":   "Completed",
}

// Funcs returns the template helpers. Times are stored in UTC and shown in loc.
func Funcs(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"fmtTime":     func(v any) string { return fmtTime(v, loc) },
		"statusLabel": statusLabel,
	}
}

// Templates parses every page; gin renders them by file name.
func Templates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(files, "templates/*.html")
}

func fmtTime(v any, loc *time.Location) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return dto.Missing
		}
		return t.In(loc).Format(timeLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return dto.Missing
		}
		return t.In(loc).Format(timeLayout)
	}
	return dto.Missing
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}
