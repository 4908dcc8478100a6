// Package body decodes and validates JSON request bodies.
package body

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server/resp"
	"github.com/indieinfra/imageupload/server/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterValidation("localpath", config.ValidateLocalpath)
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ReadJSON decodes a JSON body capped at the configured payload size into dst
// and validates it. On failure a response has been written and false is
// returned.
func ReadJSON(cfg *config.Config, w http.ResponseWriter, r *http.Request, dst any) bool {
	if _, ok := util.RequireValidJSONContentType(w, r); !ok {
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(cfg.Server.Limits.MaxPayloadSize))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			resp.WriteInvalidRequest(w, fmt.Sprintf("Body exceeds the maximum size of %d bytes", maxErr.Limit))
			return false
		}
		resp.WriteInvalidRequest(w, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		resp.WriteInvalidRequest(w, describeValidation(err))
		return false
	}

	return true
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return "Invalid request: " + strings.Join(msgs, ", ")
}
