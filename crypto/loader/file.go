package loader

import (
	"os"

	"golang.org/x/xerrors"
)

// keyFile keeps a key in a file that is written once and never overwritten.
//
// - implements loader.Loader
type keyFile struct {
	path string

	readFn   func(path string) ([]byte, error)
	createFn func(path string, flags int, perms os.FileMode) (*os.File, error)
}

// NewFileLoader returns a loader that keeps the key in the file at the path.
func NewFileLoader(path string) Loader {
	return keyFile{
		path:     path,
		readFn:   os.ReadFile,
		createFn: os.OpenFile,
	}
}

// LoadOrCreate implements loader.Loader. A missing file is created with the
// generated key and is only readable by the current user (0400). The creation
// fails if the file appears in the meantime.
func (f keyFile) LoadOrCreate(g Generator) ([]byte, error) {
	data, err := f.readFn(f.path)
	if err == nil {
		return data, nil
	}

	if !os.IsNotExist(err) {
		return nil, xerrors.Errorf("failed to load file: %v", err)
	}

	data, err = g.Generate()
	if err != nil {
		return nil, xerrors.Errorf("generator failed: %v", err)
	}

	file, err := f.createFn(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0400)
	if err != nil {
		return nil, xerrors.Errorf("while creating file: %v", err)
	}

	defer file.Close()

	_, err = file.Write(data)
	if err != nil {
		return nil, xerrors.Errorf("while writing: %v", err)
	}

	return data, nil
}

// Load implements loader.Loader.
func (f keyFile) Load() ([]byte, error) {
	data, err := f.readFn(f.path)
	if err != nil {
		return nil, xerrors.Errorf("while reading file: %v", err)
	}

	return data, nil
}
