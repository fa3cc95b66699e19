// Package qr produces the access QR for a ticket: a hosted renderer URL for
// email bodies and a locally rendered image for attachments.
package qr

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeqown/go-qrcode"
)

type Generator struct {
	siteURL     string
	rendererURL string
	tempDir     string
}

func NewGenerator(siteURL, rendererURL string) *Generator {
	return &Generator{
		siteURL:     strings.TrimRight(siteURL, "/"),
		rendererURL: rendererURL,
		tempDir:     os.TempDir(),
	}
}

// AccessURL is the link encoded in the QR.
func (g *Generator) AccessURL(token string) string {
	return g.siteURL + "/mis-entradas?token=" + url.QueryEscape(token)
}

// ImageURL points the hosted renderer at the access URL.
func (g *Generator) ImageURL(token string) string {
	q := url.Values{}
	q.Set("text", g.AccessURL(token))
	q.Set("size", "300")
	q.Set("margin", "1")
	q.Set("format", "png")
	return g.rendererURL + "?" + q.Encode()
}

// Render draws the QR locally and returns the encoded JPEG bytes.
func (g *Generator) Render(token string) ([]byte, error) {
	qrc, err := qrcode.New(g.AccessURL(token))
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	f, err := os.CreateTemp(g.tempDir, "ticket-*.jpeg")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := qrc.Save(path); err != nil {
		return nil, fmt.Errorf("save qr to %s: %w", filepath.Base(path), err)
	}
	return os.ReadFile(path)
}
