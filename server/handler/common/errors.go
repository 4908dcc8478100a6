package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/util"
	"github.com/indieinfra/imageupload/uploader"
)

// LogAndWriteError logs an error with request context and maps known conditions to client responses.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	rl := util.FromContext(r.Context())
	if rl == nil {
		rl = util.WithRequest(log.Default(), r, "")
	}
	rl.Errorf("%s failed: %v", op, err)

	switch {
	case errors.Is(err, uploader.ErrInvalidArgument), errors.Is(err, uploader.ErrDecode):
		resp.WriteInvalidRequest(w, err.Error())
	case errors.Is(err, uploader.ErrSourceNotFound):
		resp.WriteNotFound(w, "source file not found")
	default:
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}
