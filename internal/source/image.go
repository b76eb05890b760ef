package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource is a single decoded image file presented as a one-page source.
type ImageSource struct {
	path string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &ImageSource{path: path}, nil
}

func (s *ImageSource) PageCount() int {
	return 1
}

func (s *ImageSource) Dimensions(index int) (float64, float64, error) {
	if index != 0 {
		return 0, 0, fmt.Errorf("page %d out of range (image has 1)", index)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// Render decodes the file. dpi is ignored for raster images.
func (s *ImageSource) Render(index int, dpi int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("page %d out of range (image has 1)", index)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}

// Resize scales img to width x height with a Catmull-Rom kernel. Gray inputs
// stay gray so the extractor keeps treating them as single channel.
func Resize(img image.Image, width, height int) image.Image {
	rect := image.Rect(0, 0, width, height)
	var dst draw.Image
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		dst = image.NewGray(rect)
	default:
		dst = image.NewRGBA(rect)
	}
	draw.CatmullRom.Scale(dst, rect, img, img.Bounds(), draw.Src, nil)
	return dst
}
