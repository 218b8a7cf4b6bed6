package uploads

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/JaimeStill/file-lab/pkg/decode"
)

// wireEntry mirrors one raw file entry as surfaced by the transport layer.
// Pointer fields distinguish absent keys from zero values.
type wireEntry struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	TmpName *string `json:"tmp_name"`
	Error   *int    `json:"error"`
	Size    *int64  `json:"size"`
}

var requiredFields = []string{"name", "type", "tmp_name", "error", "size"}

var bracketKey = regexp.MustCompile(`^file\[(\d+)\]$`)

// Normalize rewrites the raw transport file structure into the canonical
// ordered descriptor sequence. Three batch encodings are detected in fixed
// priority order: an array of file objects under the "file" key, top-level
// "file[N]" keys ordered by ascending numeric index, and the legacy
// parallel-array object ordered by position. A bare file object falls back
// to a sequence of length one. Entries missing required fields are carried
// through as incomplete descriptors so they surface as per-item failures
// instead of aborting the batch.
func Normalize(raw map[string]any) []Descriptor {
	if batch, ok := indexedBatch(raw); ok {
		return batch
	}
	if batch, ok := bracketBatch(raw); ok {
		return batch
	}
	if batch, ok := parallelBatch(raw); ok {
		return batch
	}
	return singleFile(raw)
}

// indexedBatch detects the canonical batch encoding: the "file" key holding
// an array of per-file objects.
func indexedBatch(raw map[string]any) ([]Descriptor, bool) {
	entries, ok := entryList(raw["file"])
	if !ok {
		return nil, false
	}

	batch := make([]Descriptor, 0, len(entries))
	for i, entry := range entries {
		batch = append(batch, toDescriptor(entry, i))
	}
	return batch, true
}

// bracketBatch detects top-level "file[N]" keys and re-keys them into the
// canonical ordering by ascending numeric index. A key holding a list of
// entries (repeated parts under one index) is flattened in submission
// order at that index.
func bracketBatch(raw map[string]any) ([]Descriptor, bool) {
	type indexedEntry struct {
		index   int
		entries []map[string]any
	}

	var found []indexedEntry
	for key, value := range raw {
		m := bracketKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		if entries, ok := entryList(value); ok {
			found = append(found, indexedEntry{index: index, entries: entries})
			continue
		}
		entry, _ := value.(map[string]any)
		found = append(found, indexedEntry{index: index, entries: []map[string]any{entry}})
	}

	if len(found) == 0 {
		return nil, false
	}

	slices.SortFunc(found, func(a, b indexedEntry) int {
		return cmp.Compare(a.index, b.index)
	})

	var batch []Descriptor
	for _, item := range found {
		for _, entry := range item.entries {
			batch = append(batch, toDescriptor(entry, item.index))
		}
	}
	return batch, true
}

// parallelBatch detects the legacy parallel-array encoding: the "file" key
// holding an object whose fields are positional arrays.
func parallelBatch(raw map[string]any) ([]Descriptor, bool) {
	obj, ok := raw["file"].(map[string]any)
	if !ok {
		return nil, false
	}

	names, ok := obj["name"].([]any)
	if !ok {
		return nil, false
	}

	fields := map[string][]any{"name": names}
	for _, field := range []string{"type", "tmp_name", "error", "size"} {
		if values, ok := obj[field].([]any); ok {
			fields[field] = values
		}
	}

	batch := make([]Descriptor, 0, len(names))
	for i := range names {
		entry := make(map[string]any, len(requiredFields))
		for _, field := range requiredFields {
			values := fields[field]
			if i < len(values) && values[i] != nil {
				entry[field] = values[i]
			}
		}
		batch = append(batch, toDescriptor(entry, i))
	}
	return batch, true
}

// singleFile treats the "file" key as one bare file object. A payload
// without a file entry normalizes to an empty sequence.
func singleFile(raw map[string]any) []Descriptor {
	entry, _ := raw["file"].(map[string]any)
	if entry == nil {
		return nil
	}
	return []Descriptor{toDescriptor(entry, 0)}
}

// entryList coerces a raw value into a list of per-file objects. Malformed
// elements become nil entries, which normalize to fully-missing descriptors.
func entryList(value any) ([]map[string]any, bool) {
	switch v := value.(type) {
	case []map[string]any:
		return v, true
	case []any:
		entries := make([]map[string]any, len(v))
		for i, item := range v {
			entry, ok := item.(map[string]any)
			if ok {
				entries[i] = entry
			}
		}
		return entries, true
	default:
		return nil, false
	}
}

// toDescriptor converts one raw entry into a canonical descriptor,
// recording absent required fields instead of failing.
func toDescriptor(entry map[string]any, index int) Descriptor {
	fallback := Descriptor{
		Name:    fmt.Sprintf("Unknown file #%d", index),
		Missing: requiredFields,
	}

	if entry == nil {
		return fallback
	}

	wire, err := decode.FromMap[wireEntry](entry)
	if err != nil {
		return fallback
	}

	var d Descriptor
	if wire.Name != nil {
		d.Name = *wire.Name
	} else {
		d.Name = fmt.Sprintf("Unknown file #%d", index)
		d.Missing = append(d.Missing, "name")
	}
	if wire.Type != nil {
		d.Type = *wire.Type
	} else {
		d.Missing = append(d.Missing, "type")
	}
	if wire.TmpName != nil {
		d.TmpPath = *wire.TmpName
	} else {
		d.Missing = append(d.Missing, "tmp_name")
	}
	if wire.Error != nil {
		d.Code = Code(*wire.Error)
	} else {
		d.Missing = append(d.Missing, "error")
	}
	if wire.Size != nil {
		d.Size = *wire.Size
	} else {
		d.Missing = append(d.Missing, "size")
	}
	return d
}
