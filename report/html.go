package report

import (
	"fmt"
	"html"
	"strings"
)

const documentStyle = `
    <style>
        /* Set the page size to A4 for printing */
        @page {
            size: A4;
            width: 210mm;
            height: 297mm;
            margin: auto;
            box-sizing: border-box;
            background: white;
            border: 1px solid #ddd;
        }

        @media print {
            .page {
                page-break-before: always;
            }
        }

        body {
            margin: 10mm;
            padding: 10mm;
            font-family: Arial, sans-serif;
            background-color: #fff;
        }

        h1 {
            text-align: center;
        }
        h2 {
            text-align: left;
        }
        p {
            text-align: justify;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 15px;
        }
        th, td {
            border: 1px solid black;
            padding: 8px;
            text-align: left;
        }
    </style>
`

// HTML renders the report markup with the fixed section order: title,
// metadata, qualification table, conclusion, improvement list.
func (d *Document) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("    <title>Job Match Analysis</title>\n")
	b.WriteString(documentStyle)
	b.WriteString("</head>\n<body>\n\n")
	b.WriteString("<h1>Job Match Analysis</h1>\n\n")

	d.writeMetadata(&b)
	d.writeQualificationTable(&b)
	d.writeConclusion(&b)
	d.writeImprovements(&b)

	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

func (d *Document) writeMetadata(b *strings.Builder) {
	if d.JobTitle != "" {
		fmt.Fprintf(b, "<p><strong>Job Title:</strong> %s</p>\n", html.EscapeString(d.JobTitle))
	}
	fmt.Fprintf(b, "<p><strong>Generated Time:</strong> %s</p>\n", d.generatedTime())
}

func (d *Document) writeQualificationTable(b *strings.Builder) {
	b.WriteString("\n<h2>Qualification Analysis</h2>\n<table>\n")
	b.WriteString("    <tr>\n")
	for _, h := range []string{"FIELD", "MARK", "JOB DESC", "RESUME", "NOTE", "REQUIRED", "SKILL CATEGORY"} {
		fmt.Fprintf(b, "        <th>%s</th>\n", h)
	}
	b.WriteString("    </tr>\n")
	for _, row := range d.Rows {
		b.WriteString("    <tr>\n")
		for _, cell := range []string{
			row.Field, row.Mark, row.JobDesc, row.Resume, row.Note,
			requiredMark(row), skillCategory(row),
		} {
			fmt.Fprintf(b, "        <td>%s</td>\n", html.EscapeString(cell))
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("</table>\n")
}

func (d *Document) writeConclusion(b *strings.Builder) {
	b.WriteString("\n<h2>Conclusion</h2>\n")
	fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(d.Conclusion))
	fmt.Fprintf(b, "<p><strong>Matching Score:</strong> %s</p>\n", d.scorePercent())
	fmt.Fprintf(b, "<p><strong>Analysis Result:</strong> (%s) %s</p>\n",
		d.Verdict.Label, html.EscapeString(d.Verdict.Description))
}

func (d *Document) writeImprovements(b *strings.Builder) {
	b.WriteString("\n<h2>Area for Improvement</h2>\n<ul>\n")
	for _, point := range d.Improvements {
		fmt.Fprintf(b, "    <li>%s</li>\n", html.EscapeString(point))
	}
	b.WriteString("</ul>\n")
}
