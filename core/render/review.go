package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/blogpipe/core"
)

// ReviewRenderer renders a one-page review packet per published draft:
// the quality verdict, any failures and warnings, and the TL;DR, so an
// editor can sign off without opening the CMS.
type ReviewRenderer struct{}

// NewReviewRenderer creates a ReviewRenderer.
func NewReviewRenderer() *ReviewRenderer {
	return &ReviewRenderer{}
}

// Render produces the review packet as PDF bytes.
func (r *ReviewRenderer) Render(draft *core.Draft, quality core.QualityResult, publishedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, draft.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, fmt.Sprintf("Slug: %s    Words: %d    Published: %s",
		draft.Slug, draft.WordCount, publishedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	verdict := "PASSED"
	if !quality.Passes {
		verdict = "FAILED"
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 6, "Quality gate: "+verdict, "", "L", false)
	pdf.Ln(2)

	renderFindings(pdf, "Failures", quality.Failures)
	renderFindings(pdf, "Warnings", quality.Warnings)

	if len(draft.TLDRBullets) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 6, "TL;DR", "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		for _, bullet := range draft.TLDRBullets {
			pdf.MultiCell(0, 5, "• "+bullet, "", "L", false)
		}
	}

	if draft.KeyTakeaway != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 6, "Key Takeaway", "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, draft.KeyTakeaway, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing review PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for review packets.
func (r *ReviewRenderer) Extension() string {
	return ".pdf"
}

func renderFindings(pdf *gofpdf.Fpdf, label string, findings []string) {
	if len(findings) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.MultiCell(0, 5, label, "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	for _, f := range findings {
		pdf.MultiCell(0, 5, "• "+f, "", "L", false)
	}
	pdf.Ln(2)
}
