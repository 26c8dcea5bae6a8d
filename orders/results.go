// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orders

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/venicegeo/bf-planet-recipes/planet"
	"github.com/venicegeo/bf-planet-recipes/util"
	"golang.org/x/sync/errgroup"
)

// ErrUnsafePath is returned for archive entries that would land outside
// the extraction directory
var ErrUnsafePath = errors.New("archive entry escapes destination")

// DownloadResults fetches every downloadable result of an order into dir,
// keeping the result's relative path. Failed and expired results are
// skipped with a warning. At most parallelism files download at once.
func DownloadResults(ctx context.Context, pc *planet.Context, order *Order, dir string, parallelism int) ([]string, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	now := time.Now()
	var (
		mutex sync.Mutex
		paths []string
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)
	for _, result := range order.Links.Results {
		result := result
		if !result.Downloadable(now) {
			util.LogAlert(pc, fmt.Sprintf("Skipping result %v of order %v (delivery %q, expires %v).", result.Name, order.ID, result.Delivery, result.ExpiresAt))
			continue
		}
		subdir, filename := resultPath(result.Name)
		group.Go(func() error {
			target, err := planet.Download(groupCtx, pc, planet.DownloadInput{
				URL:      result.Location,
				Dir:      filepath.Join(dir, subdir),
				Filename: filename,
				Kind:     "order",
				Ref:      order.ID + "/" + result.Name,
			})
			if err != nil {
				return err
			}
			mutex.Lock()
			paths = append(paths, target)
			mutex.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return paths, err
	}
	return paths, nil
}

// resultPath splits a result name such as "<order>/PSScene/x.tif" into a
// safe relative directory and a file name
func resultPath(name string) (string, string) {
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	elements := strings.Split(cleaned, "/")
	for i, element := range elements {
		elements[i] = planet.SanitizeFilename(element)
	}
	filename := elements[len(elements)-1]
	if filename == "" {
		filename = "result"
	}
	return filepath.Join(elements[:len(elements)-1]...), filename
}

// Unzip extracts an archive into dest and returns the extracted files
func Unzip(archive, dest string) ([]string, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, file := range reader.File {
		target := filepath.Join(root, filepath.FromSlash(file.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return files, fmt.Errorf("%w: %v", ErrUnsafePath, file.Name)
		}
		if file.FileInfo().IsDir() {
			if err = os.MkdirAll(target, 0755); err != nil {
				return files, err
			}
			continue
		}
		if err = extract(file, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}
	return files, nil
}

func extract(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	in, err := file.Open()
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// UnzipAll extracts every .zip among paths into dest and returns the
// extracted files along with the paths that were not archives
func UnzipAll(paths []string, dest string) ([]string, error) {
	files := []string{}
	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".zip") {
			files = append(files, p)
			continue
		}
		extracted, err := Unzip(p, dest)
		if err != nil {
			return files, err
		}
		files = append(files, extracted...)
	}
	return files, nil
}
