package vocab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/storage"
)

// WriteFile writes the vocabulary to path, replacing any existing file.
// The file is written next to its destination and renamed into place.
func WriteFile(path string, vocabulary *core.Vocabulary) error {
	if vocabulary == nil {
		return ErrVocabularyRequired
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(storage.MarshalVocabulary(vocabulary)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile loads a vocabulary written by WriteFile.
// Returns storage.ErrArtifactNotFound if the file does not exist and
// storage.ErrCorruptArtifact if it cannot be decoded.
func ReadFile(path string) (*core.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrArtifactNotFound, path)
		}
		return nil, err
	}
	vocabulary, err := storage.UnmarshalVocabulary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptArtifact, path, err)
	}
	return vocabulary, nil
}
