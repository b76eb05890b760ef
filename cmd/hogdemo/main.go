package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/hog"
	"github.com/ivlev/hog/internal/report"
)

func main() {
	textPtr := flag.String("text", "https://en.wikipedia.org/wiki/Histogram_of_oriented_gradients", "QR code content")
	sizePtr := flag.Int("size", 128, "Image size in pixels")
	outPtr := flag.String("out", os.TempDir(), "Directory for the demo image and report")
	flag.Parse()

	imagePath := filepath.Join(*outPtr, "hog_demo.png")
	reportPath := filepath.Join(*outPtr, "hog_demo.yaml")

	fmt.Println("=== HOG Descriptor Demo ===")

	// Step 1: Create synthetic test image
	fmt.Println("[1/3] Rendering QR code...")
	qr, err := qrcode.New(*textPtr, qrcode.Medium)
	if err != nil {
		log.Fatalf("Failed to build QR code: %v", err)
	}
	img := qr.Image(*sizePtr)

	f, err := os.Create(imagePath)
	if err != nil {
		log.Fatalf("Failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Failed to encode image: %v", err)
	}
	fmt.Printf("✓ Created test image: %s (%dx%d)\n\n", imagePath, *sizePtr, *sizePtr)

	// Step 2: Extract descriptors with two orientation conventions
	fmt.Println("[2/3] Extracting descriptors...")
	pixels := hog.FromImage(img)
	p := hog.DefaultParams()
	desc, err := hog.Extract(pixels, p)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	signed := p
	signed.NbBins = 18
	signed.UnsignedDirs = false
	signedDesc, err := hog.Extract(pixels, signed)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	fmt.Printf("✓ Unsigned: %d values | Signed: %d values\n\n", len(desc), len(signedDesc))

	// Step 3: Write report
	fmt.Println("[3/3] Writing report...")
	rep := report.New(imagePath, pixels, p, desc)
	if err := rep.WriteFile(reportPath); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	fmt.Printf("✓ Report: %s\n", reportPath)
	fmt.Printf("  Blocks: %dx%d, mean %.4f, non-zero %.1f%%\n",
		rep.BlocksX, rep.BlocksY, rep.Stats.Mean, rep.Stats.NonZero*100)
}
