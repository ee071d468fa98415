package codec

import (
	"github.com/gogpu/kconv"
)

// LoadRaster decodes the image at path into a raster with the given layout.
// channelForce has the same meaning as in Decode.
func LoadRaster(path string, channelForce int, layout kconv.Layout) (*kconv.Raster, error) {
	data, w, h, c, err := Decode(path, channelForce)
	if err != nil {
		return nil, err
	}
	r, err := kconv.NewRasterFrom(w, h, c, data, kconv.Interleaved)
	if err != nil {
		return nil, err
	}
	r.ToLayout(layout)
	return r, nil
}

// SaveRaster encodes r to path. Planar rasters are converted on a copy;
// r itself is left untouched.
func SaveRaster(path string, r *kconv.Raster) error {
	if r.Layout() != kconv.Interleaved {
		r = r.Clone()
		r.ConvertLayout()
	}
	return Encode(path, r.Width(), r.Height(), r.Channels(), r.Data())
}
