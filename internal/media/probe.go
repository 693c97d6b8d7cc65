package media

import (
	"fmt"
	"image"
	"io"

	// Registered decoders for the header probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what a header probe learns about a media entry.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%s, %dx%d", i.Format, i.Width, i.Height)
}

// Probe decodes only the image header of entry. Formats without a registered
// decoder (emf, wmf, svg...) return an error and are reported without
// dimensions.
func Probe(entry Entry) (*ImageInfo, error) {
	if entry.file == nil {
		return nil, fmt.Errorf("probe %s: entry is not backed by an archive", entry.Name)
	}

	rc, err := entry.file.Open()
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", entry.Name, err)
	}
	defer rc.Close() // nolint:errcheck // read-only entry stream

	cfg, format, err := image.DecodeConfig(io.LimitReader(rc, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", entry.Name, err)
	}
	return &ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
