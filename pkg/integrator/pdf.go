package integrator

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

const utf8Family = "body"

var (
	imageLine    = regexp.MustCompile(`^!\[[^\]]*\]\(([^)]*)\)$`)
	inlineMarkup = strings.NewReplacer("**", "", "__", "", "`", "")
	linkMarkup   = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
)

// PDFRenderer lays out article markdown as a simple A4 document.
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
}

func (r *PDFRenderer) newWriter() *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	w := &pdfWriter{pdf: pdf, family: "Helvetica", tr: func(s string) string { return s }}
	if r.fontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", r.fontPath)
		w.family = utf8Family
		w.utf8 = true
	} else {
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return w
}

func (w *pdfWriter) font(style string, size float64) {
	if w.utf8 {
		style = ""
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) block(style string, size, lineHeight float64, text string) {
	w.font(style, size)
	w.pdf.MultiCell(0, lineHeight, w.tr(text), "", "L", false)
}

// Render returns the PDF bytes for title and markdown.
func (r *PDFRenderer) Render(title, markdown string) ([]byte, error) {
	w := r.newWriter()
	w.pdf.SetTitle(title, w.utf8)
	w.pdf.SetCreator("aiwriter", false)
	w.pdf.AddPage()

	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		w.block("", 11, 6, strings.Join(paragraph, " "))
		w.pdf.Ln(3)
		paragraph = paragraph[:0]
	}

	inFence := false
	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "```") {
			flush()
			inFence = !inFence
			continue
		}
		if inFence {
			w.pdf.SetFont("Courier", "", 9)
			w.pdf.MultiCell(0, 4.5, w.tr(raw), "", "L", false)
			continue
		}

		switch {
		case line == "":
			flush()
		case imageLine.MatchString(line):
			flush()
			url := imageLine.FindStringSubmatch(line)[1]
			w.block("I", 9, 5, "[image] "+url)
			w.pdf.Ln(2)
		case strings.HasPrefix(line, "# "):
			flush()
			w.block("B", 20, 10, clean(line[2:]))
			w.pdf.Ln(4)
		case strings.HasPrefix(line, "## "):
			flush()
			w.pdf.Ln(2)
			w.block("B", 15, 8, clean(line[3:]))
			w.pdf.Ln(2)
		case strings.HasPrefix(line, "### "), strings.HasPrefix(line, "#### "):
			flush()
			w.block("B", 12.5, 7, clean(strings.TrimLeft(line, "# ")))
			w.pdf.Ln(1)
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flush()
			w.block("", 11, 6, "• "+clean(line[2:]))
		case strings.HasPrefix(line, "> "):
			flush()
			w.block("I", 11, 6, clean(line[2:]))
			w.pdf.Ln(2)
		default:
			paragraph = append(paragraph, clean(line))
		}
	}
	flush()

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clean(s string) string {
	return inlineMarkup.Replace(linkMarkup.ReplaceAllString(s, "$1"))
}
