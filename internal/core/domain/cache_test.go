package domain_test

import (
	"testing"

	"go.trai.ch/cuv/internal/core/domain"
)

func TestRecordFromCachedScan(t *testing.T) {
	unit := domain.TranslationUnit{Path: domain.NewInternedString("src/m.cppm")}

	entry := domain.CacheEntry{
		Path: "src/m.cppm",
		Scan: &domain.CachedScan{
			Provides: &domain.CachedProvides{Name: "M", Interface: true},
			Requires: []domain.CachedRequire{{Name: "M", Partition: "impl"}},
			Includes: []string{"include/util.hpp"},
		},
	}

	rec, ok := domain.RecordFromCachedScan(unit, entry)
	if !ok {
		t.Fatal("expected record from cached scan")
	}
	if !rec.ProvidesModule() || rec.Module.Provides.String() != "M" {
		t.Errorf("unexpected provides: %v", rec.Module.Provides)
	}
	if !rec.Module.IsInterface {
		t.Error("expected interface flag to survive the round trip")
	}
	if len(rec.Module.Requires) != 1 || rec.Module.Requires[0].String() != "M:impl" {
		t.Errorf("unexpected requires: %v", rec.Module.Requires)
	}
	if len(rec.Includes) != 1 || rec.Includes[0].String() != "include/util.hpp" {
		t.Errorf("unexpected includes: %v", rec.Includes)
	}
}

func TestRecordFromCachedScan_NoScanResult(t *testing.T) {
	unit := domain.TranslationUnit{Path: domain.NewInternedString("src/a.cpp")}
	if _, ok := domain.RecordFromCachedScan(unit, domain.CacheEntry{Path: "src/a.cpp"}); ok {
		t.Error("expected no record when entry carries no scan result")
	}
}

func TestCachedScanFromRecord_NonModuleUnit(t *testing.T) {
	rec := &domain.DependencyRecord{
		Unit:     domain.TranslationUnit{Path: domain.NewInternedString("src/a.cpp")},
		Includes: []domain.InternedString{domain.NewInternedString("include/a.hpp")},
	}

	scan := domain.CachedScanFromRecord(rec)
	if scan.Provides != nil {
		t.Errorf("expected nil provides, got %v", scan.Provides)
	}
	if len(scan.Includes) != 1 || scan.Includes[0] != "include/a.hpp" {
		t.Errorf("unexpected includes: %v", scan.Includes)
	}
}
