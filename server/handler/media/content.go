package media

import (
	"net/http"

	"github.com/indieinfra/imageupload/server/body"
	"github.com/indieinfra/imageupload/server/handler/common"
	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/state"
)

type base64Request struct {
	Data string `json:"data" validate:"required"`
	Path string `json:"path" validate:"omitempty,localpath"`
	Name string `json:"name" validate:"omitempty,localpath"`
}

type contentRequest struct {
	Content string `json:"content"`
	Path    string `json:"path" validate:"omitempty,localpath"`
	Name    string `json:"name" validate:"required,localpath"`
}

func HandleBase64Upload(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req base64Request
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		stored, err := st.Uploader.ImageUploadBase64(r.Context(), req.Data, req.Path, req.Name)
		if err != nil {
			common.LogAndWriteError(w, r, "base64 upload", err)
			return
		}

		resp.WriteCreated(w, stored.URL, stored)
	}
}

func HandleContentUpload(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contentRequest
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		stored, err := st.Uploader.ContentUpload(r.Context(), []byte(req.Content), req.Path, req.Name)
		if err != nil {
			common.LogAndWriteError(w, r, "content upload", err)
			return
		}

		resp.WriteCreated(w, stored.URL, stored)
	}
}
