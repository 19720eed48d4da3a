// Package jfile provides the file-level ambient operations the CLI
// commands need around the core parser: atomic writes (temp file plus
// rename, so a crash or a concurrent reader never observes a partially
// written file) and loading an input file into the NUL-terminated
// buffer jcursor.Cursor requires.
package jfile

import (
	"os"
	"path/filepath"

	"github.com/lattice-substrate/inplace-json/jerr"
)

// WriteAtomic writes data to path atomically: it is created as a temp
// file in the same directory (so the final rename stays on one
// filesystem), synced, and renamed into place. On any failure the temp
// file is removed and path is left untouched. Only POSIX rename
// semantics are assumed; this is not portable to platforms where rename
// does not atomically replace an existing file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".jlex-*.tmp")
	if err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "create temp file")
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "close temp file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return jerr.Wrap(jerr.InternalIO, -1, err, "rename temp file into place")
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir best-effort fsyncs dir so the rename above survives a crash;
// failures are ignored, as this is a durability SHOULD, not a MUST.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}

// ReadForParse reads the file at path and returns its bytes with a
// single trailing NUL appended, ready to hand to jcursor.New. The
// returned buffer is a fresh allocation the caller owns exclusively.
func ReadForParse(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jerr.Wrap(jerr.InternalIO, -1, err, "read input file")
	}
	buf := make([]byte, len(data)+1)
	copy(buf, data)
	return buf, nil
}
