package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestFileName = "fabletidy.toml"

type corpusManifest struct {
	Path   string
	Root   string
	Config corpusConfig
}

type corpusConfig struct {
	Corpus corpusSection `toml:"corpus"`
}

type corpusSection struct {
	File string `toml:"file"`
}

// findCorpusManifest walks up from startDir looking for fabletidy.toml.
func findCorpusManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadCorpusManifest(startDir string) (*corpusManifest, bool, error) {
	manifestPath, ok, err := findCorpusManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadCorpusConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &corpusManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadCorpusConfig(path string) (corpusConfig, error) {
	var cfg corpusConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return corpusConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("corpus") {
		return corpusConfig{}, fmt.Errorf("%s: missing [corpus]", path)
	}
	if !meta.IsDefined("corpus", "file") || strings.TrimSpace(cfg.Corpus.File) == "" {
		return corpusConfig{}, fmt.Errorf("%s: missing [corpus].file", path)
	}
	return cfg, nil
}

// corpusPath resolves the manifest's corpus file relative to the manifest
// directory.
func (m *corpusManifest) corpusPath() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Corpus.File)))
}
