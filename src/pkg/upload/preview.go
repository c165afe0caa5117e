package upload

import (
	"bytes"
	"encoding/base64"

	"github.com/disintegration/imaging"
	"github.com/tuumbleweed/xerr"
	_ "golang.org/x/image/webp"
)

/*
Preview decodes the image, fits it inside maxWidth x maxHeight keeping the
aspect ratio (never enlarging), and returns it as a PNG data URL suitable for
an <img> tag.
*/
func (img Image) Preview(maxWidth, maxHeight int) (dataURL string, e *xerr.Error) {
	decoded, decodeErr := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if decodeErr != nil {
		return "", xerr.NewError(decodeErr, "decode image for preview", img.Filename)
	}

	thumbnail := imaging.Fit(decoded, maxWidth, maxHeight, imaging.Lanczos)

	var buffer bytes.Buffer
	encodeErr := imaging.Encode(&buffer, thumbnail, imaging.PNG)
	if encodeErr != nil {
		return "", xerr.NewError(encodeErr, "encode preview PNG", img.Filename)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}
