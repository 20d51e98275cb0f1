package blob

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealorders/internal/config"
)

const (
	// Payloads above this size are refused to keep request latency bounded.
	maxImageBytes = 5 << 20

	uploadTimeout = 10 * time.Second

	// Placeholder prefixes, one per failure category. The value is stored
	// in place of a URL and is recognizable by the local_ prefix.
	prefixBackup  = "local_backup_"
	prefixTimeout = "local_timeout_"
	prefixError   = "local_error_"
)

// Uploader pushes image payloads to the blob store through a pre-signed
// write URL. It never fails its caller: every error path yields a
// placeholder identifier instead.
type Uploader struct {
	endpoint  string
	container string
	sasToken  string
	client    *http.Client
	loc       *time.Location
	now       func() time.Time
}

func NewUploader(cfg config.BlobConfig) *Uploader {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return &Uploader{
		endpoint:  cfg.Endpoint,
		container: cfg.Container,
		sasToken:  cfg.SASToken,
		client:    &http.Client{Timeout: uploadTimeout},
		loc:       loc,
		now:       time.Now,
	}
}

// Configured reports whether real uploads are possible. When false,
// Upload returns backup placeholders without touching the network.
func (u *Uploader) Configured() bool {
	return u.endpoint != "" && u.container != "" && u.sasToken != ""
}

// IsPlaceholder reports whether ref is a local fallback identifier
// rather than a retrievable URL.
func IsPlaceholder(ref string) bool {
	return strings.HasPrefix(ref, "local_")
}

// Upload decodes the base64 payload and PUTs it to the blob store,
// returning the public URL on success or a placeholder on any failure.
func (u *Uploader) Upload(ctx context.Context, imageBase64, suggestedName string) string {
	if !u.Configured() {
		slog.Warn("blob storage not configured, keeping local reference", "name", suggestedName)
		return prefixBackup + suggestedName
	}

	// Strip a data URI prefix (data:image/jpeg;base64,...) if present.
	if i := strings.IndexByte(imageBase64, ','); i >= 0 {
		imageBase64 = imageBase64[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		slog.Error("image payload is not valid base64", "name", suggestedName, "error", err)
		return prefixError + suggestedName
	}

	if len(data) > maxImageBytes {
		slog.Warn("image too large, skipping upload", "name", suggestedName, "bytes", len(data))
		return prefixBackup + suggestedName
	}

	objectName := fmt.Sprintf("temp_%s_%s", u.now().In(u.loc).Format("20060102_150405"), suggestedName)
	uploadURL := fmt.Sprintf("%s/%s/%s?%s", u.endpoint, u.container, objectName, u.sasToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		slog.Error("build upload request failed", "name", suggestedName, "error", err)
		return prefixError + suggestedName
	}
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := u.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			slog.Warn("upload timed out, keeping local reference", "name", suggestedName)
			return prefixTimeout + suggestedName
		}
		slog.Error("upload request failed", "name", suggestedName, "error", err)
		return prefixError + suggestedName
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("upload rejected, keeping local reference", "name", suggestedName, "status", resp.StatusCode)
		return prefixBackup + suggestedName
	}

	// Public URL without the signed query parameters. Propagation is not
	// verified before returning.
	return fmt.Sprintf("%s/%s/%s", u.endpoint, u.container, objectName)
}
