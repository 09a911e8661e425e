package history

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// ErrHistoryFormat indicates a persisted history that cannot be parsed:
// entries that are not 2- or 3-element string tuples, mappings missing
// required fields, or an unknown entry kind.
var ErrHistoryFormat = errors.New("malformed operation history")

// entryDoc is the mapping form of a persisted entry. Tuple form
// (a 2- or 3-element string sequence) is also accepted on load. The flag
// fields are pointers so an absent flag can be told apart from an explicit
// false and filled from Defaults.
type entryDoc struct {
	Kind            string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Find            string `json:"find,omitempty" yaml:"find,omitempty"`
	Replace         string `json:"replace" yaml:"replace"`
	Note            string `json:"note,omitempty" yaml:"note,omitempty"`
	NormalizeSpaces *bool  `json:"normalize_spaces,omitempty" yaml:"normalize_spaces,omitempty"`
	DropEmpty       *bool  `json:"drop_empty,omitempty" yaml:"drop_empty,omitempty"`
}

// Defaults supplies the per-entry flags for persisted entries that cannot or
// do not spell them out: tuple-form entries, and mapping-form entries that
// omit the flag fields. Files written by Save always carry explicit flags,
// so Defaults only ever applies to hand-written histories.
type Defaults struct {
	NormalizeSpaces bool
	DropEmpty       bool
}

// Load reads a persisted operation history from path with zero-valued
// Defaults. The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .cleanrc will try both YAML and HCL formats
func Load(ctx context.Context, path string) (*History, error) {
	return LoadWithDefaults(ctx, path, Defaults{})
}

// LoadWithDefaults is Load with explicit flag defaults for entries that omit
// them, so a caller can have hand-written histories inherit its own
// normalization and empty-drop behavior.
func LoadWithDefaults(ctx context.Context, path string, defaults Defaults) (*History, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading operation history")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading history file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".cleanrc" || filepath.Base(path) == ".cleanrc" {
		h, yerr := parseYAML(data, defaults)
		if yerr == nil {
			return h, nil
		}
		h, herr := parseHCL(data, path, defaults)
		if herr == nil {
			return h, nil
		}
		return nil, errors.Errorf("failed to parse .cleanrc as YAML or HCL: %w", yerr)
	}

	switch ext {
	case ".json":
		return parseJSON(data, defaults)
	case ".yaml", ".yml":
		return parseYAML(data, defaults)
	case ".hcl":
		return parseHCL(data, path, defaults)
	default:
		return nil, errors.Errorf("unsupported history file extension %q", ext)
	}
}

// Save writes h to path in the canonical mapping form, as JSON when the
// extension is .json and as YAML otherwise. Entry order and notes survive a
// load round-trip.
func Save(ctx context.Context, path string, h *History) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Int("entries", h.Len()).Msg("saving operation history")

	docs := make([]entryDoc, 0, h.Len())
	for _, e := range h.entries {
		// written flags are always explicit so a later load never needs
		// to guess them
		normalizeSpaces, dropEmpty := e.NormalizeSpaces, e.DropEmpty
		docs = append(docs, entryDoc{
			Kind:            string(e.Kind),
			Find:            e.Find,
			Replace:         e.Replace,
			Note:            e.Note,
			NormalizeSpaces: &normalizeSpaces,
			DropEmpty:       &dropEmpty,
		})
	}

	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(docs, "", "  ")
	} else {
		data, err = yaml.Marshal(docs)
	}
	if err != nil {
		return errors.Errorf("encoding history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing history file: %w", err)
	}
	return nil
}

func parseYAML(data []byte, defaults Defaults) (*History, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Errorf("%w: parsing YAML: %v", ErrHistoryFormat, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// empty file, empty history
		return New(), nil
	}

	seq := root.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, errors.Errorf("%w: history must be a sequence of entries", ErrHistoryFormat)
	}

	h := New()
	for i, item := range seq.Content {
		switch item.Kind {
		case yaml.SequenceNode:
			var tuple []string
			if err := item.Decode(&tuple); err != nil {
				return nil, errors.Errorf("%w: entry %d: %v", ErrHistoryFormat, i, err)
			}
			e, err := entryFromTuple(tuple, defaults)
			if err != nil {
				return nil, errors.Errorf("entry %d: %w", i, err)
			}
			h.Append(e)
		case yaml.MappingNode:
			var doc entryDoc
			if err := item.Decode(&doc); err != nil {
				return nil, errors.Errorf("%w: entry %d: %v", ErrHistoryFormat, i, err)
			}
			e, err := entryFromDoc(doc, defaults)
			if err != nil {
				return nil, errors.Errorf("entry %d: %w", i, err)
			}
			h.Append(e)
		default:
			return nil, errors.Errorf("%w: entry %d is neither a tuple nor a mapping", ErrHistoryFormat, i)
		}
	}
	return h, nil
}

func parseJSON(data []byte, defaults Defaults) (*History, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Errorf("%w: parsing JSON: %v", ErrHistoryFormat, err)
	}

	h := New()
	for i, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 {
			return nil, errors.Errorf("%w: entry %d is empty", ErrHistoryFormat, i)
		}
		switch trimmed[0] {
		case '[':
			var tuple []string
			if err := json.Unmarshal(trimmed, &tuple); err != nil {
				return nil, errors.Errorf("%w: entry %d: %v", ErrHistoryFormat, i, err)
			}
			e, err := entryFromTuple(tuple, defaults)
			if err != nil {
				return nil, errors.Errorf("entry %d: %w", i, err)
			}
			h.Append(e)
		case '{':
			var doc entryDoc
			dec := json.NewDecoder(bytes.NewReader(trimmed))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&doc); err != nil {
				return nil, errors.Errorf("%w: entry %d: %v", ErrHistoryFormat, i, err)
			}
			e, err := entryFromDoc(doc, defaults)
			if err != nil {
				return nil, errors.Errorf("entry %d: %w", i, err)
			}
			h.Append(e)
		default:
			return nil, errors.Errorf("%w: entry %d is neither a tuple nor a mapping", ErrHistoryFormat, i)
		}
	}
	return h, nil
}

// hclHistory is the HCL form: a sequence of operation blocks.
type hclHistory struct {
	Operations []hclOperation `hcl:"operation,block"`
}

type hclOperation struct {
	Kind            *string `hcl:"kind,optional"`
	Find            *string `hcl:"find,optional"`
	Replace         *string `hcl:"replace,optional"`
	Note            *string `hcl:"note,optional"`
	NormalizeSpaces *bool   `hcl:"normalize_spaces,optional"`
	DropEmpty       *bool   `hcl:"drop_empty,optional"`
}

func parseHCL(data []byte, filename string, defaults Defaults) (*History, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("%w: parsing HCL: %s", ErrHistoryFormat, diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var doc hclHistory
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &doc)
	if diags.HasErrors() {
		return nil, errors.Errorf("%w: decoding HCL: %s", ErrHistoryFormat, diags.Error())
	}

	h := New()
	for i, op := range doc.Operations {
		e, err := entryFromDoc(entryDoc{
			Kind:            strDeref(op.Kind),
			Find:            strDeref(op.Find),
			Replace:         strDeref(op.Replace),
			Note:            strDeref(op.Note),
			NormalizeSpaces: op.NormalizeSpaces,
			DropEmpty:       op.DropEmpty,
		}, defaults)
		if err != nil {
			return nil, errors.Errorf("entry %d: %w", i, err)
		}
		h.Append(e)
	}
	return h, nil
}

// entryFromTuple converts a persisted (find, replace[, note]) tuple. Tuples
// cannot carry flags, so the caller's defaults apply.
func entryFromTuple(tuple []string, defaults Defaults) (Entry, error) {
	if len(tuple) != 2 && len(tuple) != 3 {
		return Entry{}, errors.Errorf("%w: tuple must have 2 or 3 elements, got %d", ErrHistoryFormat, len(tuple))
	}
	e := Entry{
		Kind:            KindReplace,
		Find:            tuple[0],
		Replace:         tuple[1],
		NormalizeSpaces: defaults.NormalizeSpaces,
		DropEmpty:       defaults.DropEmpty,
	}
	if len(tuple) == 3 {
		e.Note = tuple[2]
	}
	if e.Find == "" {
		return Entry{}, errors.Errorf("%w: find pattern is required", ErrHistoryFormat)
	}
	return e, nil
}

func entryFromDoc(doc entryDoc, defaults Defaults) (Entry, error) {
	kind := Kind(doc.Kind)
	if kind == "" {
		kind = KindReplace
	}

	switch kind {
	case KindReplace:
		if doc.Find == "" {
			return Entry{}, errors.Errorf("%w: find pattern is required", ErrHistoryFormat)
		}
	case KindASCIIFold, KindEquivalents:
		if doc.Find != "" || doc.Replace != "" {
			return Entry{}, errors.Errorf("%w: %s entries take no find/replace patterns", ErrHistoryFormat, kind)
		}
	default:
		return Entry{}, errors.Errorf("%w: unknown entry kind %q", ErrHistoryFormat, doc.Kind)
	}

	return Entry{
		Kind:            kind,
		Find:            doc.Find,
		Replace:         doc.Replace,
		Note:            doc.Note,
		NormalizeSpaces: boolOr(doc.NormalizeSpaces, defaults.NormalizeSpaces),
		DropEmpty:       boolOr(doc.DropEmpty, defaults.DropEmpty),
	}, nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// boolOr dereferences b, falling back when the flag was absent.
func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
