package codec

import (
	"fmt"
	"image/png"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// SidecarPath returns the metadata file stored next to an image.
func SidecarPath(path string) string {
	return path + ".yaml"
}

// Save writes im as a PNG to path and its metadata to SidecarPath(path).
func Save(fs afero.Fs, path string, im *Image) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, im.Pixels); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	data, err := yaml.Marshal(im.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return afero.WriteFile(fs, SidecarPath(path), data, 0o644)
}

// Load reads a PNG written by Save. A missing sidecar leaves the metadata
// empty so Decode can fall back to caller defaults.
func Load(fs afero.Fs, path string) (*Image, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var meta Metadata
	ok, err := afero.Exists(fs, SidecarPath(path))
	if err != nil {
		return nil, err
	}
	if ok {
		data, err := afero.ReadFile(fs, SidecarPath(path))
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parse %s: %w", SidecarPath(path), err)
		}
	}
	return FromImage(src, meta), nil
}
