package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/server/handler/media"
	"github.com/indieinfra/imageupload/server/middleware"
	"github.com/indieinfra/imageupload/server/state"
	"github.com/indieinfra/imageupload/storage/disk"
	diskfactory "github.com/indieinfra/imageupload/storage/disk/factory"
	"github.com/indieinfra/imageupload/transform"
	"github.com/indieinfra/imageupload/uploader"
)

const shutdownTimeout = 10 * time.Second

func initializeDisk(cfg *config.DiskConfig) (disk.Disk, error) {
	d, err := diskfactory.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %q disk: %w", cfg.Strategy, err)
	}
	return d, nil
}

// BuildUploader creates the configured disks and the uploader on top of them.
func BuildUploader(cfg *config.Config) (*uploader.Uploader, error) {
	d, err := initializeDisk(&cfg.Storage.Default)
	if err != nil {
		return nil, err
	}

	opts := uploader.OptionsFromConfig(&cfg.ImageUpload)
	if cfg.Storage.Public != nil {
		if opts.Public, err = initializeDisk(cfg.Storage.Public); err != nil {
			return nil, err
		}
	}

	return uploader.New(d, transform.NewImaging(), opts), nil
}

func NewMux(st *state.State) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /media/image", media.HandleImageUpload(st))
	mux.Handle("POST /media/video", media.HandleVideoUpload(st))
	mux.Handle("POST /media/file", media.HandleFileUpload(st))
	mux.Handle("POST /media/base64", media.HandleBase64Upload(st))
	mux.Handle("POST /media/content", media.HandleContentUpload(st))
	mux.Handle("POST /media/thumb", media.HandleThumb(st))
	mux.Handle("DELETE /media", media.HandleDelete(st))
	mux.Handle("DELETE /media/dir", media.HandleRemoveDir(st))

	return middleware.RequestLogging(st.Cfg, mux)
}

// StartServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func StartServer(cfg *config.Config) error {
	up, err := BuildUploader(cfg)
	if err != nil {
		return err
	}

	st := &state.State{Cfg: cfg, Uploader: up}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bindAddress := net.JoinHostPort(cfg.Server.Address, fmt.Sprint(cfg.Server.Port))
	srv := &http.Server{
		Addr:              bindAddress,
		Handler:           NewMux(st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving http requests on %q", bindAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("shutting down http server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
