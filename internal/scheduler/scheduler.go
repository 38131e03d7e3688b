package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ghdl/internal/config"
	"ghdl/internal/download"
	"ghdl/internal/filter"
	"ghdl/internal/github"
	"ghdl/internal/output"
	"ghdl/internal/utils"
)

// newAPIClient builds the release-resolution client; swapped in tests to
// point at a local server.
var newAPIClient = github.NewClient

// task is one queued asset download.
type task struct {
	asset  github.Asset
	client *utils.HTTPClient
	repo   string
}

// RepoFailure records a repository whose release could not be resolved or
// whose local cleanup failed.
type RepoFailure struct {
	Repo string
	Err  error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Downloaded   int
	Skipped      int
	Failed       int
	RepoFailures []RepoFailure
	Results      []download.Result
}

// OK reports whether every repository resolved and every selected asset was
// downloaded or legitimately skipped.
func (s *Summary) OK() bool {
	return len(s.RepoFailures) == 0 && s.Failed == 0
}

// Run drives a full download pass over the configured repositories: resolve
// every repository's latest release concurrently, filter and queue the
// selected assets, then drain the queue with a bounded worker pool.
func Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	logger := output.GetLogger("scheduler")
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating download directory %q: %w", cfg.Dir, err)
	}

	summary := &Summary{}
	var mu sync.Mutex
	var tasks []task

	// Release resolution is independent per repository and never waits on a
	// download. Failures are recorded and the other repositories continue.
	var group errgroup.Group
	for i := range cfg.Repos {
		repo := &cfg.Repos[i]
		group.Go(func() error {
			name := repo.Name()
			token := cfg.EffectiveToken(repo)
			logger.Debug().Str("repo", name).Strs("filters", repo.Matchers.Exprs()).Msg("Resolving latest release")

			assets, err := newAPIClient(ctx, token).LatestRelease(ctx, repo.Owner, repo.Repo)
			if err != nil {
				logger.Warn().Str("repo", name).Err(err).Msg("Failed to resolve latest release")
				mu.Lock()
				summary.RepoFailures = append(summary.RepoFailures, RepoFailure{Repo: name, Err: err})
				mu.Unlock()
				return nil
			}

			var selected []github.Asset
			for _, asset := range assets {
				if repo.Matchers.Selects(asset.Name) {
					selected = append(selected, asset)
				} else {
					logger.Debug().Str("repo", name).Msgf("Filtered out %q", asset.Name)
				}
			}

			// Matching local files must be gone before any of this repo's
			// downloads can start; its tasks are queued only afterwards.
			if cfg.ClearMatches {
				if err := clearMatches(cfg.Dir, repo.Matchers, logger); err != nil {
					logger.Warn().Str("repo", name).Err(err).Msg("Failed to clear matching files")
					mu.Lock()
					summary.RepoFailures = append(summary.RepoFailures, RepoFailure{Repo: name, Err: err})
					mu.Unlock()
					return nil
				}
			}

			assetClient := newAssetClient(token)
			mu.Lock()
			for _, asset := range selected {
				tasks = append(tasks, task{asset: asset, client: assetClient, repo: name})
			}
			mu.Unlock()
			return nil
		})
	}
	group.Wait()

	results := runTasks(ctx, cfg, tasks, logger)
	for _, res := range results {
		summary.Results = append(summary.Results, res)
		switch res.Outcome {
		case download.Downloaded:
			logger.Info().Msgf("Downloaded file %q", res.Asset.Name)
			summary.Downloaded++
		case download.Skipped:
			logger.Info().Msgf("Skipped existing file %q", res.Asset.Name)
			summary.Skipped++
		case download.Failed:
			logger.Warn().Err(res.Err).Msgf("Failed to download file %q", res.Asset.Name)
			summary.Failed++
		}
	}
	return summary, nil
}

// runTasks drains the task list with cfg.Concurrency workers; zero means no
// cap, one worker per task.
func runTasks(ctx context.Context, cfg *config.Config, tasks []task, logger zerolog.Logger) []download.Result {
	results := make([]download.Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	taskCh := make(chan int, len(tasks))
	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)

	workers := cfg.Concurrency
	if workers == 0 || workers > len(tasks) {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				t := tasks[i]
				if ctx.Err() != nil {
					results[i] = download.Result{Asset: t.asset, Outcome: download.Failed, Err: ctx.Err()}
					continue
				}
				logger.Debug().Str("repo", t.repo).Msgf("Starting download of %q", t.asset.Name)
				results[i] = download.Fetch(ctx, t.asset, cfg.Dir, cfg.Overwrite, t.client)
			}
		}()
	}
	wg.Wait()
	return results
}

// clearMatches deletes regular files in dir whose names the pattern set
// explicitly matches. An empty set matches nothing, so a repository without
// filters never deletes anything.
func clearMatches(dir string, matchers *filter.Set, logger zerolog.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading download directory: %w", err)
	}
	var firstErr error
	for _, entry := range entries {
		if !matchers.Matches(entry.Name()) {
			continue
		}
		if !entry.Type().IsRegular() {
			logger.Warn().Msgf("Clear matches: %q is not a regular file", entry.Name())
			if firstErr == nil {
				firstErr = fmt.Errorf("%q is not a regular file", entry.Name())
			}
			continue
		}
		logger.Info().Msgf("Clear matches: deleting file %q", entry.Name())
		// Repos are cleared concurrently; an overlapping filter may have
		// deleted the entry after ReadDir listed it.
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Msgf("Clear matches: failed to delete %q", entry.Name())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// newAssetClient builds the HTTP client used for asset byte transfers.
// browser_download_url is not an API endpoint, so the bearer token rides in
// a plain header.
func newAssetClient(token string) *utils.HTTPClient {
	client := utils.NewHTTPClient(utils.HTTPClientConfig{
		UserAgent: "ghdl",
		Headers:   map[string]string{"Accept": "application/octet-stream"},
	})
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}
	return client
}
