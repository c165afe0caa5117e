package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

const InvalidFileTypeMessage = "Invalid file type. Please upload PNG, JPG, JPEG, or WEBP image."

// allowed maps file extensions to the media type the content must sniff as.
var allowed = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// Image is an uploaded statement image that passed validation.
type Image struct {
	Filename  string
	MediaType string
	Data      []byte
}

/*
Validate accepts PNG, JPEG and WEBP statement images. The extension must be
one of png/jpg/jpeg/webp and the content must sniff as the matching type, so
a renamed file is rejected as well.
*/
func Validate(filename string, data []byte) (img Image, e *xerr.Error) {
	extension := strings.ToLower(filepath.Ext(filename))
	expected, ok := allowed[extension]
	if !ok {
		return Image{}, xerr.NewError(fmt.Errorf("extension %q is not allowed", extension), InvalidFileTypeMessage, filename)
	}
	if len(data) == 0 {
		return Image{}, xerr.NewError(fmt.Errorf("file is empty"), InvalidFileTypeMessage, filename)
	}

	detected := mimetype.Detect(data)
	if !detected.Is(expected) {
		return Image{}, xerr.NewError(
			fmt.Errorf("content is %s, expected %s", detected.String(), expected),
			InvalidFileTypeMessage, filename,
		)
	}

	tl.Log(tl.Verbose, palette.Cyan, "Accepted upload '%s' (%s, %s bytes)", filename, expected, len(data))
	return Image{Filename: filepath.Base(filename), MediaType: expected, Data: data}, nil
}

// IsAllowedExtension reports whether a file name has an accepted image extension.
func IsAllowedExtension(filename string) bool {
	_, ok := allowed[strings.ToLower(filepath.Ext(filename))]
	return ok
}
