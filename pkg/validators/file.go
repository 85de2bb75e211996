package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("only .html files are supported")
)

const maxFileNameSize = 255

// HTMLValidator checks an uploaded document and returns its contents.
// The extension check catches honest mistakes cheaply; the mimetype
// sniff afterwards catches clients lying about what they're sending.
func HTMLValidator(fh *multipart.FileHeader) (int, []byte, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoFile
	}

	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".html") {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, ErrFileNameTooLong
	}

	maxFileSize := viper.GetInt64("upload.max_size")
	if fh.Size > maxFileSize {
		return http.StatusRequestEntityTooLarge, nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	if int64(len(content)) > maxFileSize {
		return http.StatusRequestEntityTooLarge, nil, ErrFileTooLarge
	}

	mime := mimetype.Detect(content)
	if !mime.Is("text/html") && !mime.Is("text/plain") {
		return http.StatusBadRequest, nil, ErrFileTypeUnsupported
	}

	return 0, content, nil
}
