// Package report renders the single-page productivity PDF.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/maintenance-orders/internal/httperr"
)

// DownloadName is the attachment name every report is served under.
const DownloadName = "productivity_report.pdf"

type Productivity struct {
	TechnicianName  string
	CompletedOrders int
	TotalHours      float64
}

func (p Productivity) Validate() error {
	if strings.TrimSpace(p.TechnicianName) == "" {
		return httperr.Validation("Technician name is required.")
	}
	if !latin1(p.TechnicianName) {
		ok, err := printable(p.TechnicianName)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.Validation("Technician name contains characters the report cannot print.")
		}
	}
	if p.CompletedOrders < 0 {
		return httperr.Validation("Completed orders cannot be negative.")
	}
	if p.TotalHours < 0 || math.IsNaN(p.TotalHours) || math.IsInf(p.TotalHours, 0) {
		return httperr.Validation("Total hours must be a non-negative number.")
	}
	return nil
}

// FormatHours prints hours without trailing zeros: 12.5 -> "12.5", 3 -> "3".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// File is a generated report on disk. Close removes it.
type File struct {
	ID   string
	Path string
	Size int64
}

func (f *File) Close() error {
	if f == nil || f.Path == "" {
		return nil
	}
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type Generator struct {
	dir     string
	archive Archive
	now     func() time.Time
}

// NewGenerator writes reports under dir (the OS temp dir when empty). archive
// may be nil.
func NewGenerator(dir string, archive Archive, now func() time.Time) *Generator {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Generator{dir: dir, archive: archive, now: now}
}

// Generate writes a new uniquely named report file. The caller owns the
// returned File and must Close it.
func (g *Generator) Generate(ctx context.Context, p Productivity) (*File, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	path := filepath.Join(g.dir, "productivity_report-"+id+".pdf")

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create report file: %w", err)
	}
	file := &File{ID: id, Path: path}

	if err := render(p).Output(out); err != nil {
		out.Close()
		file.Close()
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := out.Close(); err != nil {
		file.Close()
		return nil, fmt.Errorf("close report file: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		file.Size = info.Size()
	}

	g.store(ctx, file)
	return file, nil
}

func (g *Generator) store(ctx context.Context, file *File) {
	if g.archive == nil {
		return
	}

	in, err := os.Open(file.Path)
	if err != nil {
		zap.L().Warn("report archive: open failed", zap.String("report_id", file.ID), zap.Error(err))
		return
	}
	defer in.Close()

	key := ArchiveKey(g.now(), file.ID)
	if err := g.archive.Store(ctx, key, in, file.Size); err != nil {
		zap.L().Warn("report archive: upload failed", zap.String("key", key), zap.Error(err))
	}
}

func render(p Productivity) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	pdf.SetTitle("Productivity Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(100, 42, "Productivity Report")

	name := "Technician: " + p.TechnicianName
	if latin1(name) {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(100, 62, pdf.UnicodeTranslatorFromDescriptor("")(name))
	} else {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", dejaVuTTF)
		pdf.SetFont(unicodeFamily, "", 12)
		pdf.Text(100, 62, name)
	}

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(100, 82, "Completed Orders: "+strconv.Itoa(p.CompletedOrders))
	pdf.Text(100, 102, "Total Time: "+FormatHours(p.TotalHours)+" hours")

	return pdf
}
