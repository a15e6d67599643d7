// Package metadata reads the auxiliary skill metadata sources of a skills
// repository: the combined index file at the repository root and the
// directory of per-skill JSON files. Both readers are best-effort: a missing
// or malformed source yields an empty mapping and a warning.
package metadata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// Record is the metadata one source holds for a skill. Absent fields stay nil
// so that the merge can tell "not provided" from "provided but empty".
type Record struct {
	Name        string   `mapstructure:"name"`
	Description *string  `mapstructure:"description"`
	Tags        []string `mapstructure:"tags"`
	Version     *string  `mapstructure:"version"`
	Author      *string  `mapstructure:"author"`
	UpdatedAt   *string  `mapstructure:"updatedAt"`
	Stars       *int     `mapstructure:"stars"`
	SourceURL   *string  `mapstructure:"sourceUrl"`
}

// Records maps skill name to its metadata record.
type Records map[string]Record

// Lookup returns the record for name, if any.
func (r Records) Lookup(name string) (Record, bool) {
	if r == nil {
		return Record{}, false
	}
	rec, ok := r[name]
	return rec, ok
}

// DecodeRecord converts a loosely-typed JSON object into a Record. Scalars
// are coerced (a numeric version becomes a string, "12" stars becomes 12)
// and unknown keys are ignored. A field that cannot be decoded is left nil
// and reported in the returned error; the rest of the record is still
// filled in.
func DecodeRecord(raw map[string]interface{}) (Record, error) {
	var rec Record
	if err := decode(raw, &rec); err == nil {
		return rec, nil
	}

	rec = Record{}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		field := map[string]interface{}{key: raw[key]}
		var scratch Record
		if err := decode(field, &scratch); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", key, err))
			continue
		}
		if err := decode(field, &rec); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", key, err))
		}
	}
	return rec, errors.Join(errs...)
}

func decode(input map[string]interface{}, rec *Record) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           rec,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return dec.Decode(input)
}
