// Copyright 2024 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package script

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"

	"github.com/archetect-run/archetect/pkg/render"
)

// bindArchive exposes zip(dir, out), tar(dir, out), tar_gz(dir, out),
// and tar_xz(dir, out), each walking dir and writing a single archive
// to out. zip uses klauspost/compress's flate implementation (faster
// than compress/flate at the same ratio); tar_gz uses klauspost/pgzip
// for parallel gzip; tar_xz uses ulikunitz/xz, the pure-Go LZMA2
// codec the pack's archive stack settles on where gzip's ratio isn't
// enough (spec.md §4.G: "archive helpers (zip/tar/tar.gz/tar.xz)").
func (s *scriptSession) bindArchive(vm *goja.Runtime) {
	resolve := func(p string) (string, error) {
		if err := render.ContainPath(s.rc.Destination, p); err != nil {
			return "", err
		}
		return p, nil
	}

	vm.Set("zip", func(dir, out string) {
		dir, err := resolve(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		out, err = resolve(out)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if err := zipDir(dir, out); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("tar", func(dir, out string) {
		dir, err := resolve(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		out, err = resolve(out)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if err := tarDir(dir, out, func(w io.Writer) (io.WriteCloser, error) { return nopCloser{w}, nil }); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("tar_gz", func(dir, out string) {
		dir, err := resolve(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		out, err = resolve(out)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if err := tarDir(dir, out, func(w io.Writer) (io.WriteCloser, error) { return pgzip.NewWriter(w), nil }); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})

	vm.Set("tar_xz", func(dir, out string) {
		dir, err := resolve(dir)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		out, err = resolve(out)
		if err != nil {
			panic(vm.ToValue(err.Error()))
		}
		if err := tarDir(dir, out, func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) }); err != nil {
			panic(vm.ToValue(err.Error()))
		}
	})
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func zipDir(dir, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})
	defer zw.Close()

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			_, err := zw.Create(rel + "/")
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
}

func tarDir(dir, out string, newCompressor func(io.Writer) (io.WriteCloser, error)) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	cw, err := newCompressor(f)
	if err != nil {
		return err
	}
	defer cw.Close()

	tw := tar.NewWriter(cw)
	defer tw.Close()

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
}
