package report

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// unicodeFamily is registered for names the core Helvetica font cannot encode.
const unicodeFamily = "dejavu"

//go:embed fonts/DejaVuSansCondensed.ttf
var dejaVuTTF []byte

var (
	glyphsOnce sync.Once
	glyphs     map[uint16]uint16
	glyphsErr  error
)

// loadGlyphs reads the embedded font's character map. fpdf only parses fonts
// from disk, so the bytes go through a short-lived temp file.
func loadGlyphs() (map[uint16]uint16, error) {
	glyphsOnce.Do(func() {
		tmp, err := os.CreateTemp("", "report-font-*.ttf")
		if err != nil {
			glyphsErr = fmt.Errorf("stage report font: %w", err)
			return
		}
		defer os.Remove(tmp.Name())

		_, err = tmp.Write(dejaVuTTF)
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			glyphsErr = fmt.Errorf("stage report font: %w", err)
			return
		}

		rec, err := fpdf.TtfParse(tmp.Name())
		if err != nil {
			glyphsErr = fmt.Errorf("parse report font: %w", err)
			return
		}
		glyphs = rec.Chars
	})
	return glyphs, glyphsErr
}

// printable reports whether every rune of s has a glyph in the embedded font.
func printable(s string) (bool, error) {
	chars, err := loadGlyphs()
	if err != nil {
		return false, err
	}
	for _, r := range s {
		if r > 0xFFFF {
			return false, nil
		}
		if _, ok := chars[uint16(r)]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// latin1 reports whether s is fully representable in cp1252, the encoding of
// the core PDF fonts.
func latin1(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}
