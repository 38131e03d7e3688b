package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"ghdl/internal/github"
	"ghdl/internal/utils"
)

const copyBufferSize = 64 * 1024

// Outcome of a single asset fetch.
type Outcome int

const (
	Downloaded Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result is the per-asset report handed back to the scheduler. Results live
// for one run only; nothing is persisted.
type Result struct {
	Asset   github.Asset
	Path    string
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// Fetch downloads one asset into dir, honoring the overwrite policy. The
// transfer streams into a uniquely named hidden temp file inside dir and is
// renamed into place only after the body is fully written, so a failed or
// interrupted transfer never leaves a partial destination behind.
func Fetch(ctx context.Context, asset github.Asset, dir string, overwrite bool, client *utils.HTTPClient) Result {
	start := time.Now()
	res := Result{Asset: asset, Path: filepath.Join(dir, asset.Name)}

	info, err := os.Stat(res.Path)
	switch {
	case err == nil && !overwrite:
		log.Debug().Str("op", "download").Msgf("Skipping existing file %q", asset.Name)
		res.Outcome = Skipped
		res.Elapsed = time.Since(start)
		return res
	case err == nil && !info.Mode().IsRegular():
		res.Outcome = Failed
		res.Err = fmt.Errorf("%q exists and is not a regular file", res.Path)
		res.Elapsed = time.Since(start)
		return res
	case err != nil && !errors.Is(err, os.ErrNotExist):
		res.Outcome = Failed
		res.Err = fmt.Errorf("stat %q: %w", res.Path, err)
		res.Elapsed = time.Since(start)
		return res
	}

	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.part", asset.Name, uuid.New().String()[:8]))
	if err := transfer(ctx, asset.DownloadURL, tempPath, client); err != nil {
		os.Remove(tempPath)
		res.Outcome = Failed
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	if err := os.Rename(tempPath, res.Path); err != nil {
		os.Remove(tempPath)
		res.Outcome = Failed
		res.Err = fmt.Errorf("finalizing %q: %w", asset.Name, err)
		res.Elapsed = time.Since(start)
		return res
	}
	log.Debug().Str("op", "download").Msgf("Finished download of %q", asset.Name)
	res.Outcome = Downloaded
	res.Elapsed = time.Since(start)
	return res
}

func transfer(ctx context.Context, url, tempPath string, client *utils.HTTPClient) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating GET request: %w", err)
	}
	req.Header.Set("Accept", "application/octet-stream")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("executing GET request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer outFile.Close()

	buffer := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				return fmt.Errorf("writing temp file: %w", writeErr)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return fmt.Errorf("reading response body: %w", readErr)
		}
	}
	return outFile.Sync()
}
