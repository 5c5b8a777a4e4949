package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/usersapi/internal/netx"
)

// uploadToPresignedURL is a test seam for netx.UploadToPresignedURL.
var uploadToPresignedURL = netx.UploadToPresignedURL

// Upload sends the file at path through the API.
func (a *App) Upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := a.api.UploadFile(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Uploaded %s (%d bytes, %s) as %s", info.Filename, info.Size, info.Format, info.Key))
	return nil
}

// PutFile asks the API for a presigned URL and PUTs the file straight to
// object storage.
func (a *App) PutFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	key, url, err := a.api.PresignUpload(ctx)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := uploadToPresignedURL(ctx, http.DefaultClient, url, contentType, f, st.Size()); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Stored %s (%d bytes) as %s", filepath.Base(path), st.Size(), key))
	return nil
}
