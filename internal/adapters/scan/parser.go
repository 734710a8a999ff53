package scan

import (
	"encoding/json"

	"go.trai.ch/cuv/internal/core/domain"
	"go.trai.ch/zerr"
)

// p1689File is the top-level structure of the scanner's P1689 output.
type p1689File struct {
	Version int         `json:"version"`
	Rules   []p1689Rule `json:"rules"`
}

// p1689Rule describes the dependencies of a single translation unit.
type p1689Rule struct {
	PrimaryOutput string        `json:"primary-output"`
	Provides      []p1689Module `json:"provides"`
	Requires      []p1689Module `json:"requires"`
	Includes      []string      `json:"includes"`
}

// p1689Module is a provided or required module reference. Partitions are
// encoded in the logical name as "module:partition".
type p1689Module struct {
	LogicalName string `json:"logical-name"`
	IsInterface bool   `json:"is-interface"`
	SourcePath  string `json:"source-path"`
}

// parseRecord converts raw P1689 output for one unit into a dependency record.
// The scanner is invoked per unit, so exactly one rule is expected.
func parseRecord(unit *domain.TranslationUnit, output []byte) (*domain.DependencyRecord, error) {
	var file p1689File
	if err := json.Unmarshal(output, &file); err != nil {
		return nil, malformed(unit, err.Error())
	}

	if len(file.Rules) == 0 {
		return nil, malformed(unit, "no dependency rules in scanner output")
	}
	rule := file.Rules[0]

	if len(rule.Provides) > 1 {
		return nil, malformed(unit, "translation unit provides more than one module")
	}

	rec := &domain.DependencyRecord{Unit: *unit}

	if len(rule.Provides) == 1 {
		p := rule.Provides[0]
		if p.LogicalName == "" {
			return nil, malformed(unit, "provided module has an empty logical name")
		}
		key := domain.NewModuleKey(p.LogicalName)
		rec.Module.Provides = &key
		rec.Module.IsInterface = p.IsInterface
	}

	for _, r := range rule.Requires {
		if r.LogicalName == "" {
			return nil, malformed(unit, "required module has an empty logical name")
		}
		rec.Module.Requires = append(rec.Module.Requires, domain.NewModuleKey(r.LogicalName))
	}

	for _, inc := range rule.Includes {
		rec.Includes = append(rec.Includes, domain.NewInternedString(inc))
	}

	return rec, nil
}

// malformed builds a malformed-output error that still unwraps to the
// sentinel, so callers can classify it with errors.Is.
func malformed(unit *domain.TranslationUnit, cause string) error {
	return zerr.With(
		zerr.With(zerr.Wrap(domain.ErrScannerOutputMalformed, cause), "unit", unit.Path.String()),
		"cause", cause,
	)
}
