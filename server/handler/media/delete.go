package media

import (
	"net/http"

	"github.com/indieinfra/imageupload/server/body"
	"github.com/indieinfra/imageupload/server/handler/common"
	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/state"
)

type deleteRequest struct {
	File  string `json:"file" validate:"required,localpath"`
	Path  string `json:"path" validate:"omitempty,localpath"`
	Thumb bool   `json:"thumb"`
}

type removeDirRequest struct {
	Path string `json:"path" validate:"required,localpath"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

func HandleDelete(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		deleted, err := st.Uploader.MediaDelete(r.Context(), req.File, req.Path, req.Thumb)
		if err != nil {
			common.LogAndWriteError(w, r, "delete", err)
			return
		}

		resp.WriteOK(w, deleteResponse{Deleted: deleted})
	}
}

func HandleRemoveDir(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removeDirRequest
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		deleted, err := st.Uploader.RemoveDir(r.Context(), req.Path)
		if err != nil {
			common.LogAndWriteError(w, r, "remove directory", err)
			return
		}

		resp.WriteOK(w, deleteResponse{Deleted: deleted})
	}
}
