// Package extract downloads stored documents and pulls plain text out of
// pdf, docx and txt payloads.
package extract

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

type Extractor struct {
	httpClient *http.Client
	tempDir    string
	log        *logrus.Logger
}

func New(tempDir string, log *logrus.Logger) *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tempDir:    tempDir,
		log:        log,
	}
}

// ExtractFromURL downloads the document into a temp file, extracts its text
// and removes the temp file before returning.
func (e *Extractor) ExtractFromURL(ctx context.Context, url string) (string, error) {
	ext := urlExtension(url)

	localPath, err := e.download(ctx, url, ext)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			e.log.WithError(err).WithField("path", localPath).Warn("failed to remove temp file")
		}
	}()

	return e.extractFile(localPath, ext)
}

// urlExtension takes the extension from the URL's path component, so query
// parameters on presigned links do not leak into it.
func urlExtension(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return strings.ToLower(path.Ext(rawURL))
	}
	return strings.ToLower(path.Ext(u.Path))
}

func (e *Extractor) download(ctx context.Context, url, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download document: unexpected status %d", resp.StatusCode)
	}

	localPath := filepath.Join(e.tempDir, uuid.NewString()+ext)
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return localPath, nil
}

func (e *Extractor) extractFile(localPath, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(localPath)
	case ".docx":
		return extractDocx(localPath)
	default:
		data, err := os.ReadFile(localPath)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
}

func extractPDF(localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("pdf page count: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from pdf")
	}
	return text, nil
}

var (
	paragraphCloseRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe         = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(localPath string) (string, error) {
	doc, err := docx.ReadDocxFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = paragraphCloseRe.ReplaceAllString(content, "\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	text := strings.TrimSpace(content)
	if text == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return text, nil
}
