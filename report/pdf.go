package report

import (
	"fmt"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"
)

// PDFRenderer paginates a Document onto A4 pages and writes the PDF file.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

var tableHeaders = []string{"FIELD", "MARK", "JOB DESC", "RESUME", "NOTE", "REQUIRED", "SKILL CATEGORY"}

// column width ratios; NOTE gets the widest cell
var tableWidths = []float64{0.16, 0.07, 0.18, 0.18, 0.23, 0.08, 0.10}

func (r *PDFRenderer) Render(doc *Document, path string) error {
	c := creator.New()
	c.SetPageSize(creator.PageSizeA4)
	c.SetPageMargins(36, 36, 36, 36)

	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return fmt.Errorf("load bold font: %w", err)
	}
	regular, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	title := c.NewParagraph("Job Match Analysis")
	title.SetFont(bold)
	title.SetFontSize(18)
	title.SetTextAlignment(creator.TextAlignmentCenter)
	title.SetMargins(0, 0, 0, 12)
	if err := c.Draw(title); err != nil {
		return fmt.Errorf("draw title: %w", err)
	}

	if doc.JobTitle != "" {
		if err := r.drawMetadataLine(c, regular, "Job Title: "+doc.JobTitle); err != nil {
			return err
		}
	}
	if err := r.drawMetadataLine(c, regular, "Generated Time: "+doc.generatedTime()); err != nil {
		return err
	}

	if err := r.drawQualificationTable(c, doc, bold, regular); err != nil {
		return err
	}

	if err := r.drawHeading(c, bold, "Conclusion"); err != nil {
		return err
	}
	conclusion := fmt.Sprintf("%s\n\nMatching Score: %s\nAnalysis Result: (%s) %s",
		doc.Conclusion, doc.scorePercent(), doc.Verdict.Label, doc.Verdict.Description)
	para := c.NewParagraph(conclusion)
	para.SetFont(regular)
	para.SetFontSize(10)
	para.SetMargins(0, 0, 4, 8)
	if err := c.Draw(para); err != nil {
		return fmt.Errorf("draw conclusion: %w", err)
	}

	if err := r.drawHeading(c, bold, "Area for Improvement"); err != nil {
		return err
	}
	for _, point := range doc.Improvements {
		item := c.NewParagraph("• " + point)
		item.SetFont(regular)
		item.SetFontSize(10)
		item.SetMargins(8, 0, 2, 2)
		if err := c.Draw(item); err != nil {
			return fmt.Errorf("draw improvement: %w", err)
		}
	}

	if err := c.WriteToFile(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) drawMetadataLine(c *creator.Creator, font *model.PdfFont, text string) error {
	p := c.NewParagraph(text)
	p.SetFont(font)
	p.SetFontSize(10)
	p.SetMargins(0, 0, 2, 2)
	if err := c.Draw(p); err != nil {
		return fmt.Errorf("draw metadata: %w", err)
	}
	return nil
}

func (r *PDFRenderer) drawHeading(c *creator.Creator, font *model.PdfFont, text string) error {
	h := c.NewParagraph(text)
	h.SetFont(font)
	h.SetFontSize(13)
	h.SetMargins(0, 0, 12, 4)
	if err := c.Draw(h); err != nil {
		return fmt.Errorf("draw heading: %w", err)
	}
	return nil
}

func (r *PDFRenderer) drawQualificationTable(c *creator.Creator, doc *Document, bold, regular *model.PdfFont) error {
	if err := r.drawHeading(c, bold, "Qualification Analysis"); err != nil {
		return err
	}

	table := c.NewTable(len(tableHeaders))
	if err := table.SetColumnWidths(tableWidths...); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	addCell := func(text string, font *model.PdfFont) error {
		cell := table.NewCell()
		cell.SetBorder(creator.CellBorderSideAll, creator.CellBorderStyleSingle, 0.5)
		p := c.NewParagraph(text)
		p.SetFont(font)
		p.SetFontSize(8)
		p.SetEnableWrap(true)
		return cell.SetContent(p)
	}

	for _, h := range tableHeaders {
		if err := addCell(h, bold); err != nil {
			return fmt.Errorf("table header: %w", err)
		}
	}
	for _, row := range doc.Rows {
		cells := []string{
			row.Field, asciiMark(row.Mark), row.JobDesc, row.Resume, row.Note,
			asciiMark(requiredMark(row)), skillCategory(row),
		}
		for _, text := range cells {
			if err := addCell(text, regular); err != nil {
				return fmt.Errorf("table cell: %w", err)
			}
		}
	}

	if err := c.Draw(table); err != nil {
		return fmt.Errorf("draw table: %w", err)
	}
	return nil
}

// asciiMark maps mark symbols onto glyphs available in the standard fonts;
// the checkmark has no Helvetica glyph.
func asciiMark(mark string) string {
	switch mark {
	case "✔️", "✔":
		return "OK"
	default:
		return mark
	}
}
