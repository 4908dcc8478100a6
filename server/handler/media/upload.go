package media

import (
	"context"
	"net/http"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server/handler/common"
	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/state"
	"github.com/indieinfra/imageupload/server/util"
	"github.com/indieinfra/imageupload/uploader"
)

var fileFields = []string{"file"}

// readUpload parses a multipart upload carrying exactly one file. The caller
// must close the returned file.
func readUpload(st *state.State, w http.ResponseWriter, r *http.Request) (util.MultipartValues, *util.MultipartFile, bool) {
	if _, ok := util.RequireValidMediaContentType(w, r); !ok {
		return nil, nil, false
	}

	maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
	maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
	return util.ParseMultipartWithFirstFile(w, r, maxMemory, maxSize, fileFields, true)
}

// formPath returns the relative target directory. Absolute paths and parent
// references are rejected.
func formPath(w http.ResponseWriter, values util.MultipartValues) (string, bool) {
	p := values.String("path")
	if p != "" && !config.IsLocalPath(p) {
		resp.WriteInvalidRequest(w, "path must be relative and stay inside the storage root")
		return "", false
	}
	return p, true
}

func toFile(mf *util.MultipartFile) uploader.File {
	return uploader.File{
		Content:      mf.File,
		OriginalName: mf.Header.Filename,
		Size:         mf.Header.Size,
	}
}

// resizeFromForm reads a width/height pair. Both absent means no resize; one
// absent keeps the aspect ratio.
func resizeFromForm(values util.MultipartValues, widthKey, heightKey string) (uploader.Resize, error) {
	width, err := values.Int(widthKey)
	if err != nil {
		return uploader.Resize{}, err
	}
	height, err := values.Int(heightKey)
	if err != nil {
		return uploader.Resize{}, err
	}

	if width == 0 && height == 0 {
		return uploader.NoResize(), nil
	}
	return uploader.ResizeTo(width, height), nil
}

func HandleImageUpload(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, mf, ok := readUpload(st, w, r)
		if !ok {
			return
		}
		defer mf.File.Close()

		relPath, ok := formPath(w, values)
		if !ok {
			return
		}

		// without thumb_width/thumb_height the configured thumbnail size applies
		opts := uploader.ImageOptions{Name: values.String("name")}

		thumb, err := values.Bool("thumb")
		if err != nil {
			resp.WriteInvalidRequest(w, err.Error())
			return
		}
		opts.Thumb = thumb

		if opts.ImageResize, err = resizeFromForm(values, "width", "height"); err != nil {
			resp.WriteInvalidRequest(w, err.Error())
			return
		}

		if opts.ThumbResize, err = resizeFromForm(values, "thumb_width", "thumb_height"); err != nil {
			resp.WriteInvalidRequest(w, err.Error())
			return
		}

		res, err := st.Uploader.ImageUpload(r.Context(), toFile(mf), relPath, opts)
		if err != nil {
			common.LogAndWriteError(w, r, "image upload", err)
			return
		}

		resp.WriteCreated(w, res.URL, res)
	}
}

func HandleVideoUpload(st *state.State) http.HandlerFunc {
	return handleFileUpload(st, "video upload", st.Uploader.VideoUpload)
}

func HandleFileUpload(st *state.State) http.HandlerFunc {
	return handleFileUpload(st, "file upload", st.Uploader.FileUpload)
}

type fileUploadFunc = func(ctx context.Context, file uploader.File, relPath string, name string) (*uploader.Result, error)

func handleFileUpload(st *state.State, op string, upload fileUploadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, mf, ok := readUpload(st, w, r)
		if !ok {
			return
		}
		defer mf.File.Close()

		relPath, ok := formPath(w, values)
		if !ok {
			return
		}

		res, err := upload(r.Context(), toFile(mf), relPath, values.String("name"))
		if err != nil {
			common.LogAndWriteError(w, r, op, err)
			return
		}

		resp.WriteCreated(w, res.URL, res)
	}
}
