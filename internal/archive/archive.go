// Package archive writes the zip packages handed to the upload boundary.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// Entry copies the file at Source into the archive under Name.
type Entry struct {
	Name   string
	Source string
}

// Create writes a new zip at path holding entries in order. A partially
// written archive is removed on failure.
func Create(path string, entries []Entry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		if err = addFile(zw, e); err != nil {
			_ = zw.Close()
			_ = f.Close()
			return fmt.Errorf("add %s: %w", e.Name, err)
		}
	}
	if err = zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func addFile(zw *zip.Writer, e Entry) error {
	src, err := os.Open(e.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = e.Name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
