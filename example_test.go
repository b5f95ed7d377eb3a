package dwtwatermark_test

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"dwtwatermark"
)

func Example() {
	cover := image.NewRGBA(image.Rect(0, 0, 256, 256))
	draw.Draw(cover, cover.Bounds(), image.NewUniform(color.Gray{Y: 128}), image.Point{}, draw.Src)
	watermark := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (x/16+y/16)%2 == 0 {
				watermark.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	w, _ := dwtwatermark.New(dwtwatermark.WithAlpha(0.1))

	marked, _ := w.Embed(cover, watermark)
	extracted, _ := w.Extract(marked, cover)
	res, _ := w.Verify(watermark, extracted)

	fmt.Println(marked.Bounds().Size(), res.Verified)

	// Output:
	// (256,256) true
}
