package services

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math/rand"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// Receipt art is a deterministic function of the bill identifier: the
// id hashes to a seed, the seed drives trait selection from the tables
// below, and the renderer draws the same pixels for the same seed
// every time.

// gridCells is the logical pixel grid; the output image scales each
// cell up by cellScale.
const (
	gridCells = 16
	cellScale = 16
)

// backgroundTable lists the selectable backdrop colors.
var backgroundTable = []struct {
	Name  string
	Color color.RGBA
}{
	{"midnight", color.RGBA{R: 23, G: 26, B: 48, A: 255}},
	{"ocean", color.RGBA{R: 16, G: 68, B: 112, A: 255}},
	{"forest", color.RGBA{R: 22, G: 74, B: 52, A: 255}},
	{"plum", color.RGBA{R: 74, G: 29, B: 84, A: 255}},
	{"ember", color.RGBA{R: 112, G: 40, B: 22, A: 255}},
	{"slate", color.RGBA{R: 52, G: 58, B: 64, A: 255}},
}

// accentTable lists the selectable foreground colors.
var accentTable = []struct {
	Name  string
	Color color.RGBA
}{
	{"gold", color.RGBA{R: 240, G: 196, B: 60, A: 255}},
	{"mint", color.RGBA{R: 110, G: 230, B: 170, A: 255}},
	{"coral", color.RGBA{R: 250, G: 120, B: 100, A: 255}},
	{"sky", color.RGBA{R: 120, G: 190, B: 250, A: 255}},
	{"rose", color.RGBA{R: 245, G: 140, B: 200, A: 255}},
	{"ivory", color.RGBA{R: 245, G: 240, B: 220, A: 255}},
}

// patternTable lists the selectable backdrop patterns.
var patternTable = []string{"plain", "checker", "stripes", "dots"}

// ReceiptTraits describes the derived look of one receipt.
type ReceiptTraits struct {
	Seed       uint64 `json:"seed"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
	Pattern    string `json:"pattern"`
}

// ReceiptService generates deterministic decorative receipt art for
// bills.
type ReceiptService struct{}

// NewReceiptService creates a new receipt service
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// SeedFor derives the art seed from a bill identifier.
func (s *ReceiptService) SeedFor(billID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(billID))
	return h.Sum64()
}

// TraitsFor derives the trait set for a bill.
func (s *ReceiptService) TraitsFor(bill *models.Bill) ReceiptTraits {
	seed := s.SeedFor(bill.ID)
	rng := rand.New(rand.NewSource(int64(seed)))
	return ReceiptTraits{
		Seed:       seed,
		Background: backgroundTable[rng.Intn(len(backgroundTable))].Name,
		Accent:     accentTable[rng.Intn(len(accentTable))].Name,
		Pattern:    patternTable[rng.Intn(len(patternTable))],
	}
}

// Render draws the receipt image for a seed. Pure function: the same
// seed always yields pixel-identical output.
func (s *ReceiptService) Render(seed uint64) *image.RGBA {
	rng := rand.New(rand.NewSource(int64(seed)))
	background := backgroundTable[rng.Intn(len(backgroundTable))]
	accent := accentTable[rng.Intn(len(accentTable))]
	pattern := patternTable[rng.Intn(len(patternTable))]

	size := gridCells * cellScale
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for cellY := 0; cellY < gridCells; cellY++ {
		for cellX := 0; cellX < gridCells; cellX++ {
			fillCell(img, cellX, cellY, background.Color)
		}
	}

	dimmed := dim(background.Color)
	for cellY := 0; cellY < gridCells; cellY++ {
		for cellX := 0; cellX < gridCells; cellX++ {
			switch pattern {
			case "checker":
				if (cellX+cellY)%2 == 0 {
					fillCell(img, cellX, cellY, dimmed)
				}
			case "stripes":
				if cellY%3 == 0 {
					fillCell(img, cellX, cellY, dimmed)
				}
			case "dots":
				if cellX%4 == 1 && cellY%4 == 1 {
					fillCell(img, cellX, cellY, dimmed)
				}
			}
		}
	}

	// Mirrored glyph in the center, identicon style: randomness fills
	// the left half, the right half reflects it.
	for cellY := 4; cellY < gridCells-4; cellY++ {
		for cellX := 4; cellX < gridCells/2; cellX++ {
			if rng.Intn(2) == 1 {
				fillCell(img, cellX, cellY, accent.Color)
				fillCell(img, gridCells-1-cellX, cellY, accent.Color)
			}
		}
	}

	// Single-cell frame in the accent color.
	for cell := 0; cell < gridCells; cell++ {
		fillCell(img, cell, 0, accent.Color)
		fillCell(img, cell, gridCells-1, accent.Color)
		fillCell(img, 0, cell, accent.Color)
		fillCell(img, gridCells-1, cell, accent.Color)
	}

	return img
}

// RenderPNG renders and PNG-encodes the receipt art for a bill.
func (s *ReceiptService) RenderPNG(bill *models.Bill) ([]byte, error) {
	img := s.Render(s.SeedFor(bill.ID))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, utils.NewInternalError("failed to encode receipt image")
	}
	return buf.Bytes(), nil
}

func fillCell(img *image.RGBA, cellX, cellY int, c color.RGBA) {
	for y := cellY * cellScale; y < (cellY+1)*cellScale; y++ {
		for x := cellX * cellScale; x < (cellX+1)*cellScale; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// dim darkens a color for low-contrast backdrop patterns.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
}
