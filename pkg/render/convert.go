package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/kintree/kintree/pkg/errors"
)

// rsvgBinary is the external converter used for SVG rasterization.
const rsvgBinary = "rsvg-convert"

// ToPNG converts SVG bytes to PNG at the given scale factor.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return convert(svg, "png", fmt.Sprintf("--zoom=%g", scale))
}

// ToPDF converts SVG bytes to a single-page PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

func convert(svg []byte, format string, extra ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s not found; install librsvg to export %s", rsvgBinary, format)
	}

	args := append([]string{"--format=" + format}, extra...)
	cmd := exec.Command(rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err,
			"%s conversion failed: %s", format, stderr.String())
	}
	return out.Bytes(), nil
}
