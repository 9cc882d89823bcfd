package search

import (
	"encoding/json"
	"fmt"

	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/storage"
)

// WriteArtifacts writes manifest.json, one index file per locale and the
// meta file into store. The meta file is written last, so a reader that
// finds it also finds the index files it describes.
func WriteArtifacts(store storage.Provider, m *manifest.Manifest, res *Result) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("search: encode manifest: %w", err)
	}
	if err := store.Write(ManifestFile, data); err != nil {
		return err
	}
	for _, l := range sortedLocales() {
		file, ok := res.Files[l]
		if !ok {
			return fmt.Errorf("search: no index built for locale %s", l)
		}
		if err := store.Write(IndexFile(l), file); err != nil {
			return err
		}
	}
	meta, err := json.Marshal(res.Meta)
	if err != nil {
		return fmt.Errorf("search: encode meta: %w", err)
	}
	return store.Write(MetaFile, meta)
}

// ReadMeta reads and decodes the meta file from store.
func ReadMeta(store storage.Provider) (Meta, error) {
	data, err := store.Read(MetaFile)
	if err != nil {
		return Meta{}, err
	}
	meta, err := DecodeMeta(data)
	if err != nil {
		return Meta{}, fmt.Errorf("search: %s: %w", MetaFile, err)
	}
	return meta, nil
}

// DecodeMeta decodes a meta record.
func DecodeMeta(data []byte) (Meta, error) {
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("decode meta: %w", err)
	}
	return meta, nil
}
