package media

import (
	"net/http"

	"github.com/indieinfra/imageupload/server/body"
	"github.com/indieinfra/imageupload/server/handler/common"
	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/state"
	"github.com/indieinfra/imageupload/uploader"
)

type thumbRequest struct {
	Path      string `json:"path" validate:"omitempty,localpath"`
	File      string `json:"file" validate:"required,localpath"`
	ThumbPath string `json:"thumb_path" validate:"omitempty,localpath"`
	Width     int    `json:"width" validate:"min=0"`
	Height    int    `json:"height" validate:"min=0"`
}

type thumbResponse struct {
	Created bool `json:"created"`
}

func HandleThumb(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req thumbRequest
		if !body.ReadJSON(st.Cfg, w, r, &req) {
			return
		}

		created, err := st.Uploader.Thumb(r.Context(), req.Path, req.File, uploader.ThumbOptions{
			Dir:    req.ThumbPath,
			Width:  req.Width,
			Height: req.Height,
		})
		if err != nil {
			common.LogAndWriteError(w, r, "thumbnail", err)
			return
		}

		resp.WriteCreated(w, "", thumbResponse{Created: created})
	}
}
