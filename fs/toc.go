// Package fs reads and writes TOC documents on the local file system.
package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/uframe"
)

// ReadTOC reads and decodes a TOC document saved at path. It returns the raw
// document alongside the decoded one so it can be stored unchanged.
func ReadTOC(path string) ([]byte, *uframe.TOC, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, uframe.Errorf(uframe.ENOTFOUND, "TOC file not found: %s", path)
	} else if err != nil {
		return nil, nil, err
	}

	toc, err := uframe.ParseTOC(content)
	if err != nil {
		return nil, nil, uframe.Errorf(uframe.EPARSE, "%s: %s", path, uframe.ErrorMessage(err))
	}
	return content, toc, nil
}

// WriteTOC writes content to path atomically. Content is written to a
// temporary file in the same directory and renamed into place, so a reader
// never sees a partial document.
func WriteTOC(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
