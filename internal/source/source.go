// Package source loads the single image handed to the extractor, either from
// an image file or from a rendered PDF page.
package source

import (
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source exposes a sequence of pages that can be rendered to images.
type Source interface {
	PageCount() int
	Dimensions(index int) (width, height float64, err error)
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a PDF or image source based on the file extension.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewPDFSource(path)
	}
	return NewImageSource(path)
}

// PDFSource renders PDF pages through MuPDF.
type PDFSource struct {
	doc *fitz.Document
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{doc: doc}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

func (s *PDFSource) Dimensions(index int) (float64, float64, error) {
	rect, err := s.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (s *PDFSource) Render(index int, dpi int) (image.Image, error) {
	if index < 0 || index >= s.PageCount() {
		return nil, fmt.Errorf("page %d out of range (document has %d)", index, s.PageCount())
	}
	return s.doc.ImageDPI(index, float64(dpi))
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
