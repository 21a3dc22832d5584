package epaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/epaper/frame"
)

var imageExts = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

func (e *Epaper) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := imageExts[strings.ToLower(filepath.Ext(file))]; !ok {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (e *Epaper) imageWorker(ctx context.Context, in <-chan string, opts *EncodeOptions) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			output := strings.TrimSuffix(file, filepath.Ext(file)) + ".bin"

			if err := e.EncodeFile(file, output, opts); err != nil {
				// An odd-sized image isn't fatal to the rest of the scan
				var unsupported *frame.UnsupportedResolutionError
				if errors.As(err, &unsupported) {
					e.logger.Printf("Skipping \"%s\": %v\n", file, err)
					continue
				}
				errc <- err
				return
			}

			e.logger.Printf("Encoded \"%s\" to \"%s\"\n", file, output)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the directory tree rooted at path and encodes every image it
// finds to a sibling .bin framebuffer. Each image is encoded independently
// so the work is spread over one worker per CPU; dithering itself is
// strictly sequential within an image.
func (e *Epaper) Scan(path string, opts *EncodeOptions) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	images, errc, err := e.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < runtime.NumCPU(); i++ {
		errc, err := e.imageWorker(ctx, images, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
