package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Errors returned by ExtractText.
var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrNotUTF8         = errors.New("document is not valid UTF-8 text")
	ErrNoText          = errors.New("document contains no text")
)

// Content types recorded for uploaded documents.
const (
	ContentTypeText     = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypeHTML     = "text/html"
)

var extensionTypes = map[string]string{
	".txt":      ContentTypeText,
	".text":     ContentTypeText,
	".md":       ContentTypeMarkdown,
	".markdown": ContentTypeMarkdown,
	".html":     ContentTypeHTML,
	".htm":      ContentTypeHTML,
}

// SupportedExtensions lists the accepted upload file extensions.
func SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown", ".html", ".htm"}
}

// DetectContentType maps a filename to one of the supported content types.
func DetectContentType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := extensionTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, ext,
			strings.Join(SupportedExtensions(), ", "))
	}
	return ct, nil
}

// ExtractText returns the plain text of an uploaded document and its content
// type. HTML is reduced to its readable blocks.
func ExtractText(filename string, data []byte) (text, contentType string, err error) {
	contentType, err = DetectContentType(filename)
	if err != nil {
		return "", "", err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", "", ErrNotUTF8
	}

	if contentType == ContentTypeHTML {
		text, err = htmlText(data)
		if err != nil {
			return "", "", err
		}
	} else {
		text = strings.ReplaceAll(string(data), "\r\n", "\n")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", ErrNoText
	}
	return text, contentType, nil
}

const blockSelector = "title, h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote"

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, footer, iframe").Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := collapseSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		return collapseSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
