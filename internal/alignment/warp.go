package alignment

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"gocv.io/x/gocv"

	"ridgecompare/pkg/geometry"
)

// imageToMat converts a Go image.Image to gocv.Mat (parallelized)
func imageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Create BGR Mat (OpenCV default)
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < width; x++ {
					r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
					mat.SetUCharAt(y, x*3+0, uint8(b>>8))
					mat.SetUCharAt(y, x*3+1, uint8(g>>8))
					mat.SetUCharAt(y, x*3+2, uint8(r>>8))
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat, nil
}

// matToImage converts a gocv.Mat back to an RGBA image (parallelized)
func matToImage(mat gocv.Mat) (*image.RGBA, error) {
	h := mat.Rows()
	w := mat.Cols()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := img.Stride

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		startY := worker * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		if startY >= h {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				rowOffset := y * stride
				for x := 0; x < w; x++ {
					pixOffset := rowOffset + x*4
					img.Pix[pixOffset+0] = mat.GetUCharAt(y, x*3+2) // R
					img.Pix[pixOffset+1] = mat.GetUCharAt(y, x*3+1) // G
					img.Pix[pixOffset+2] = mat.GetUCharAt(y, x*3+0) // B
					img.Pix[pixOffset+3] = 255                      // A
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return img, nil
}

// Warp applies an estimated transform to an image, producing an output of
// the given dimensions. Uncovered regions are filled with black.
func Warp(img image.Image, transform geometry.AffineTransform, width, height int) (*image.RGBA, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	transformMat.SetDoubleAt(0, 0, transform.A)
	transformMat.SetDoubleAt(0, 1, transform.B)
	transformMat.SetDoubleAt(0, 2, transform.TX)
	transformMat.SetDoubleAt(1, 0, transform.C)
	transformMat.SetDoubleAt(1, 1, transform.D)
	transformMat.SetDoubleAt(1, 2, transform.TY)
	defer transformMat.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpAffineWithParams(src, &dst, transformMat, image.Point{width, height},
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})

	return matToImage(dst)
}
