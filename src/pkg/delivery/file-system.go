package delivery

import (
	"encoding/json"
	"mime"
	"os"
	"path/filepath"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
EnsureOutputDirectory creates the target directory (and parents) if needed.
*/
func EnsureOutputDirectory(outputDirPath string) (e *xerr.Error) {
	err := os.MkdirAll(outputDirPath, 0o755)
	if err != nil {
		return xerr.NewError(err, "create output directory", outputDirPath)
	}
	tl.Log(tl.Info1, palette.Blue, "Ensured output directory '%s'", outputDirPath)
	return nil
}

/*
SaveFile writes data to dir/name, creating dir first, and returns the full
path. Existing files are overwritten.
*/
func SaveFile(dir string, name string, data []byte) (path string, e *xerr.Error) {
	e = EnsureOutputDirectory(dir)
	if e != nil {
		return "", e
	}

	path = filepath.Join(dir, filepath.Base(name))
	writeErr := os.WriteFile(path, data, 0o644)
	if writeErr != nil {
		return "", xerr.NewError(writeErr, "write file", path)
	}

	tl.Log(tl.Info1, palette.Green, "Saved %s bytes to '%s'", len(data), path)
	return path, nil
}

/*
SaveJSONToFile marshals the given value to pretty-printed JSON and writes it
to the given path, overwriting any existing file.
*/
func SaveJSONToFile(destinationPath string, value any) (e *xerr.Error) {
	jsonBytes, marshalErr := json.MarshalIndent(value, "", "  ")
	if marshalErr != nil {
		return xerr.NewError(marshalErr, "marshal value to JSON", destinationPath)
	}

	_, e = SaveFile(filepath.Dir(destinationPath), filepath.Base(destinationPath), jsonBytes)
	return e
}

// LoadJSONFromFile reads a JSON file into value.
func LoadJSONFromFile(sourcePath string, value any) (e *xerr.Error) {
	content, readErr := os.ReadFile(sourcePath)
	if readErr != nil {
		return xerr.NewError(readErr, "read JSON file", sourcePath)
	}
	unmarshalErr := json.Unmarshal(content, value)
	if unmarshalErr != nil {
		return xerr.NewError(unmarshalErr, "parse JSON file", sourcePath)
	}
	return nil
}

// AttachmentDisposition is the Content-Disposition value that makes browsers save a download under name.
func AttachmentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filepath.Base(name)})
}
