package state

import (
	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/uploader"
)

type State struct {
	Cfg      *config.Config
	Uploader *uploader.Uploader
}
