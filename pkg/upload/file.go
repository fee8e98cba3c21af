package upload

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// RequestFromFile reads path into a Request. The content type comes from
// the file extension, falling back to content sniffing.
func RequestFromFile(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, err
	}

	name := filepath.Base(path)
	return Request{
		Data:        data,
		FileName:    name,
		ContentType: DetectContentType(name, data),
	}, nil
}

// DetectContentType guesses a MIME type for name and data
func DetectContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
