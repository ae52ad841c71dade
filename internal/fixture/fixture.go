package fixture

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

// Dataset is the YAML shape of a store fixture: named tables of row
// objects plus a flat content index.
type Dataset struct {
	// Name identifies this dataset.
	Name string `yaml:"name"`

	// Description explains what the dataset models.
	Description string `yaml:"description,omitempty"`

	// CurrentUser is the user ID the store starts authenticated as.
	// Zero means no current user.
	CurrentUser int64 `yaml:"current_user,omitempty"`

	// Tables maps table names to their rows. Rows load verbatim; no
	// IDs or timestamps are generated, so a dataset can deliberately
	// contain the inconsistencies a repair pass is expected to fix.
	Tables map[string][]map[string]any `yaml:"tables,omitempty"`

	// Contents maps "repo_id:commit_sha:path" keys to file content
	// entries.
	Contents map[string]map[string]any `yaml:"contents,omitempty"`
}

// Load reads and parses a dataset YAML file. Unknown fields are
// rejected so a typo in a fixture fails loudly instead of silently
// dropping rows.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a dataset from YAML bytes.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if ds.Name == "" {
		return nil, fmt.Errorf("invalid dataset: name is required")
	}
	return &ds, nil
}

// Build populates a new store from the dataset.
func Build(ds *Dataset, opts ...store.Option) (*store.Store, error) {
	s := store.New(opts...)

	// Tables are created in sorted name order so TableNames is stable
	// for the same dataset across runs.
	names := make([]string, 0, len(ds.Tables))
	for name := range ds.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := s.Table(name)
		for i, row := range ds.Tables[name] {
			rec, err := record.ObjectFromAny(row)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d: %w", name, i, err)
			}
			table.Append(rec)
		}
	}

	for key, entry := range ds.Contents {
		rec, err := record.ObjectFromAny(entry)
		if err != nil {
			return nil, fmt.Errorf("content %s: %w", key, err)
		}
		// File entries may omit the blob SHA; derive it from the
		// content so diffing and index sync always have an identity.
		if kind, _ := rec.GetString("type"); kind == "file" {
			if _, ok := rec.GetString("sha"); !ok {
				if body, ok := rec.GetString("content"); ok {
					rec["sha"] = record.String(record.ContentSHA([]byte(body)))
				}
			}
		}
		s.SetContent(key, rec)
	}

	if ds.CurrentUser != 0 {
		if err := s.SetCurrentUser(ds.CurrentUser); err != nil {
			return nil, fmt.Errorf("current user: %w", err)
		}
	}

	return s, nil
}

// LoadStore is the common path: read a dataset file and build a store
// from it in one call.
func LoadStore(path string, opts ...store.Option) (*store.Store, error) {
	ds, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(ds, opts...)
}
