// Package render 把快照画成图片
package render

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

// 背景缓存，键为 宽_高_格子大小
var backgroundCache sync.Map

// Scale 实体在画布上的像素尺寸
func Scale(e structs.Extent, blockSize int) (w, h float64) {
	return e.Width * float64(blockSize), e.Height * float64(blockSize)
}

// Translate 返回实体矩形左上角的像素坐标。
// 网格 +y 向上，图片 +y 向下，所以 y 需要翻转；实体在格子内居中
func Translate(p structs.Position, e structs.Extent, gridHeight, blockSize int) (x, y float64) {
	block := float64(blockSize)
	cx := (float64(p.X) + 0.5) * block
	cy := (float64(gridHeight-1-p.Y) + 0.5) * block
	w, h := Scale(e, blockSize)
	return cx - w/2, cy - h/2
}

func background(width, height, blockSize int) image.Image {
	cacheKey := fmt.Sprintf("%d_%d_%d", width, height, blockSize)
	if cached, ok := backgroundCache.Load(cacheKey); ok {
		return cached.(image.Image)
	}
	canvasWidth := width * blockSize
	canvasHeight := height * blockSize
	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetRGB(0.04, 0.04, 0.04)
	dc.Clear()

	// 网格线
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.SetLineWidth(1)
	for x := 0; x <= canvasWidth; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(canvasHeight))
		dc.Stroke()
	}
	for y := 0; y <= canvasHeight; y += blockSize {
		dc.DrawLine(0, float64(y), float64(canvasWidth), float64(y))
		dc.Stroke()
	}
	img := dc.Image()
	backgroundCache.Store(cacheKey, img)
	return img
}

// Frame 画出一帧：背景、食物、蛇身、蛇头
func Frame(snap structs.Snapshot, blockSize int) image.Image {
	dc := gg.NewContext(snap.Width*blockSize, snap.Height*blockSize)
	dc.DrawImage(background(snap.Width, snap.Height, blockSize), 0, 0)

	draw := func(p structs.Position, e structs.Extent) {
		x, y := Translate(p, e, snap.Height, blockSize)
		w, h := Scale(e, blockSize)
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
	}

	dc.SetRGB(1, 0, 1)
	for _, f := range snap.Food {
		draw(f.Position, f.Extent)
	}
	// 倒序绘制，蛇头最后画在最上层
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		seg := snap.Snake[i]
		if seg.Head {
			dc.SetRGB(0.7, 0.7, 0.7)
		} else {
			dc.SetRGB(0.3, 0.3, 0.3)
		}
		draw(seg.Position, seg.Extent)
	}
	return dc.Image()
}

// Resize 缩放到指定大小，宽或高为 0 时按比例缩放
func Resize(img image.Image, width, height int) image.Image {
	if width <= 0 && height <= 0 {
		return img
	}
	b := img.Bounds()
	if width == b.Dx() && height == b.Dy() {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// EncodePNG 编码为 PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
