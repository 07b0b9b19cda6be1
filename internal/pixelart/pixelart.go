// Package pixelart renders the deterministic identicon-style image for a pet
// type. Rendering is a pure function of the pet type: same input, same bytes.
package pixelart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"petpad-launchpad/internal/domain"
)

// Size is the output image edge length in pixels.
const Size = 256

// gridSize is the pattern grid the image is divided into.
const gridSize = 8

// Pattern cells: '#' outline, '@' body, '.' eye, '*' accent, ' ' background.
var patterns = map[domain.PetType][]string{
	domain.PetDog: {
		"  ####  ",
		"  #@@#  ",
		" #@..@# ",
		" #@**@# ",
		"  ####  ",
		" #@@@@# ",
		"  #  #  ",
	},
	domain.PetCat: {
		" ## ## ",
		"#@@#@@#",
		" #@@@@# ",
		" #@..@# ",
		"  #**#  ",
		"  ####  ",
		"  #  #  ",
	},
	domain.PetHamster: {
		"  ####  ",
		" #@@@@# ",
		"#@....@#",
		"#@@**@@#",
		" #@@@@# ",
		"  ####  ",
	},
	domain.PetBunny: {
		" ##  ## ",
		" #@##@# ",
		" #@@@@# ",
		"#@....@#",
		" #@**@# ",
		"  ####  ",
		"  #  #  ",
	},
}

// palette holds the colors one pet type is drawn with.
type palette struct {
	body    color.RGBA
	outline color.RGBA
	accent  color.RGBA
	eye     color.RGBA
}

var palettes = map[domain.PetType]palette{
	domain.PetDog: {
		body:    color.RGBA{0xD4, 0xA5, 0x74, 0xFF},
		outline: color.RGBA{0x8B, 0x69, 0x14, 0xFF},
		accent:  color.RGBA{0xFF, 0x6B, 0x9D, 0xFF},
		eye:     color.RGBA{0x2D, 0x2D, 0x2D, 0xFF},
	},
	domain.PetCat: {
		body:    color.RGBA{0x9B, 0x8A, 0xA5, 0xFF},
		outline: color.RGBA{0x6B, 0x5B, 0x7A, 0xFF},
		accent:  color.RGBA{0x7C, 0x4D, 0xFF, 0xFF},
		eye:     color.RGBA{0x4C, 0xAF, 0x50, 0xFF},
	},
	domain.PetHamster: {
		body:    color.RGBA{0xFF, 0xD9, 0x3D, 0xFF},
		outline: color.RGBA{0xE5, 0xA6, 0x20, 0xFF},
		accent:  color.RGBA{0xFF, 0x6B, 0x9D, 0xFF},
		eye:     color.RGBA{0x2D, 0x2D, 0x2D, 0xFF},
	},
	domain.PetBunny: {
		body:    color.RGBA{0xF5, 0xF5, 0xF5, 0xFF},
		outline: color.RGBA{0xE0, 0xE0, 0xE0, 0xFF},
		accent:  color.RGBA{0xFF, 0xB6, 0xC1, 0xFF},
		eye:     color.RGBA{0xE9, 0x1E, 0x63, 0xFF},
	},
}

var background = color.RGBA{0xFF, 0xF8, 0xF0, 0xFF}

// Render produces the PNG image for a pet type.
// Returns an error for pet types without a registered pattern.
func Render(pet domain.PetType) ([]byte, error) {
	pattern, ok := patterns[pet]
	pal, okPal := palettes[pet]
	if !ok || !okPal {
		return nil, fmt.Errorf("no pixel pattern for pet type %q", pet)
	}

	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	cell := Size / gridSize
	for y, row := range pattern {
		for x := 0; x < len(row); x++ {
			var c color.RGBA
			switch row[x] {
			case '#':
				c = pal.outline
			case '@':
				c = pal.body
			case '.':
				c = pal.eye
			case '*':
				c = pal.accent
			default:
				continue
			}

			rect := image.Rect(x*cell, y*cell, (x+1)*cell, (y+1)*cell)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
