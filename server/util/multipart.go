package util

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/indieinfra/imageupload/server/resp"
)

// multipartOverhead is the room left above the file size limit for
// boundaries, part headers and form values.
const multipartOverhead = 1 << 20

type MultipartValues map[string]any

// String returns the first value for key, or "" when absent.
func (v MultipartValues) String(key string) string {
	switch val := v[key].(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// Int parses the value for key. Absent or empty values yield 0.
func (v MultipartValues) Int(key string) (int, error) {
	raw := v.String(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

// Bool parses the value for key. Checkbox style "on" counts as true.
func (v MultipartValues) Bool(key string) (bool, error) {
	raw := strings.ToLower(v.String(key))
	switch raw {
	case "":
		return false, nil
	case "on":
		return true, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return b, nil
}

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

func closeFiles(files []MultipartFile) {
	for _, mf := range files {
		if mf.File != nil {
			mf.File.Close()
		}
	}
}

// ParseMultipartFiles parses a multipart body and returns its values and the
// files posted under keys. Up to maxMemory bytes of file data are held in
// memory, the rest spills to temporary files. The body is capped at
// maxFileSize plus room for multipart framing, or at maxMemory when
// maxFileSize is 0. A trailing "[]" on a field name is ignored. On failure a
// 400 response has been written.
func ParseMultipartFiles(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, keys []string, required bool) (MultipartValues, []MultipartFile, bool) {
	limit := maxMemory
	if maxFileSize > 0 {
		limit = maxFileSize + multipartOverhead
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			resp.WriteInvalidRequest(w, fmt.Sprintf("Request body exceeds the maximum size of %d bytes", limit))
			return nil, nil, false
		}

		resp.WriteInvalidRequest(w, fmt.Sprintf("Invalid multipart body: %v", err))
		return nil, nil, false
	}

	values := extractValues(r)

	var files []MultipartFile
	for field, fhs := range r.MultipartForm.File {
		name := strings.TrimSuffix(field, "[]")
		if !slices.Contains(keys, name) {
			continue
		}

		for _, fh := range fhs {
			if fh.Filename == "" {
				closeFiles(files)
				resp.WriteInvalidRequest(w, "Uploaded file must have a filename")
				return nil, nil, false
			}

			if maxFileSize > 0 && fh.Size > maxFileSize {
				log.Println("rejected too large file:", fh.Filename, fh.Size)
				closeFiles(files)
				resp.WriteInvalidRequest(w, fmt.Sprintf("File %q exceeds the maximum size of %d bytes", fh.Filename, maxFileSize))
				return nil, nil, false
			}

			f, err := fh.Open()
			if err != nil {
				closeFiles(files)
				resp.WriteInvalidRequest(w, fmt.Sprintf("Could not open uploaded file %q", fh.Filename))
				return nil, nil, false
			}

			files = append(files, MultipartFile{Field: name, File: f, Header: fh})
		}
	}

	if required && len(files) == 0 {
		resp.WriteInvalidRequest(w, fmt.Sprintf("A file is required in one of %v", keys))
		return nil, nil, false
	}

	return values, files, true
}

// ParseMultipartWithFirstFile is ParseMultipartFiles for requests carrying at
// most one file. More than one file is rejected.
func ParseMultipartWithFirstFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, keys []string, required bool) (MultipartValues, *MultipartFile, bool) {
	values, files, ok := ParseMultipartFiles(w, r, maxMemory, maxFileSize, keys, required)
	if !ok {
		return nil, nil, false
	}

	switch len(files) {
	case 0:
		return values, nil, true
	case 1:
		return values, &files[0], true
	default:
		closeFiles(files)
		resp.WriteInvalidRequest(w, "Only one file may be uploaded per request")
		return nil, nil, false
	}
}

func extractValues(r *http.Request) MultipartValues {
	values := make(MultipartValues)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			switch len(arr) {
			case 0:
				continue
			case 1:
				values[key] = arr[0]
			default:
				asAny := make([]any, len(arr))
				for i, v := range arr {
					asAny[i] = v
				}
				values[key] = asAny
			}
		}
	}

	return values
}
