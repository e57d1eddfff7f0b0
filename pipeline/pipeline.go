// Package pipeline runs the engine over files, directories and standard
// input.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/spfmt/internal"
	"github.com/gnolang/spfmt/internal/prefix"
	"github.com/gnolang/spfmt/scanner"
)

// Engine processes one template at a time.
type Engine interface {
	Run(path string) (internal.Result, error)
	RunSource(source []byte) (internal.Result, error)
}

// New builds an engine from config, loading its prefix files and opening
// its cache.
func New(config Config, logger *zap.Logger) (*internal.Engine, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	resolver := prefix.NewResolver()
	if err := resolver.LoadFiles(config.PrefixFiles); err != nil {
		return nil, err
	}

	engine := internal.NewEngine(internal.Config{
		Indent:         config.Indent,
		Expand:         config.Expand,
		InsertPrefixes: config.InsertPrefixes,
		Format:         config.Format,
		MaxIterations:  config.MaxIterations,
		Resolver:       resolver,
	}, logger)

	if config.CacheDir != "" {
		cache, err := internal.NewCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		engine.SetCache(cache)
	}
	return engine, nil
}

// ProcessFiles processes every path in turn. Results are returned in the
// order of paths, and within a directory sorted by file name.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	config Config,
	paths []string,
	processor func(Engine, string) (internal.Result, error),
) ([]internal.Result, error) {
	var results []internal.Result
	for _, path := range paths {
		res, err := ProcessPath(ctx, logger, engine, config, path, processor)
		results = append(results, res...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return results, err
		}
	}
	return results, nil
}

// ProcessPath processes a single file, or every file with a configured
// extension below a directory using one worker per CPU.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	config Config,
	path string,
	processor func(Engine, string) (internal.Result, error),
) ([]internal.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		res, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		return []internal.Result{res}, nil
	}

	files, err := scanner.New(path, config.Extensions...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu      sync.Mutex
		results = make([]internal.Result, 0, len(files))
		ctxErr  error
		g       errgroup.Group
	)
	// limit the number of workers
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}

		fp := file.Path
		g.Go(func() error {
			defer func() { _ = bar.Add(1) }()

			res, err := processor(engine, fp)
			if err != nil {
				// a file that cannot be processed does not stop the others
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return nil
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	_ = bar.Finish()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})
	return results, ctxErr
}

func ProcessFile(engine Engine, filePath string) (internal.Result, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) (internal.Result, error) {
	return engine.RunSource(source)
}
