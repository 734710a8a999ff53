package domain

// HashAlgorithm identifies the fingerprint algorithm used by the cache.
const HashAlgorithm = "xxhash64"

// Outcome values for cache entries.
const (
	OutcomeSuccess = "success"
	OutcomeUnknown = "unknown"
)

// CachedProvides persists the provided-module facts of a scanned unit.
type CachedProvides struct {
	Name      string `yaml:"name"`
	Partition string `yaml:"partition,omitempty"`
	Interface bool   `yaml:"interface,omitempty"`
}

// CachedRequire persists one required module reference of a scanned unit.
type CachedRequire struct {
	Name      string `yaml:"name"`
	Partition string `yaml:"partition,omitempty"`
}

// CachedScan persists the scanner result for a unit so that an unchanged unit
// can skip re-scanning on the next invocation.
type CachedScan struct {
	Provides *CachedProvides `yaml:"provides,omitempty"`
	Requires []CachedRequire `yaml:"requires,omitempty"`
	Includes []string        `yaml:"includes,omitempty"`
}

// CacheEntry is the persisted fingerprint record for one translation unit.
type CacheEntry struct {
	Path        string     `yaml:"path"`
	ContentHash string     `yaml:"content_hash"`
	CommandHash string     `yaml:"command_hash"`
	Algorithm   string     `yaml:"algorithm"`
	RequireBMIs []string   `yaml:"require_bmis,omitempty"`
	Scan        *CachedScan `yaml:"scan,omitempty"`
	Outcome     string     `yaml:"outcome"`
}

// CacheManifest is the persisted fingerprint store, loaded once per
// invocation as an immutable snapshot and committed exactly once after a
// confirmed successful build.
type CacheManifest struct {
	Version   int                   `yaml:"version"`
	Algorithm string                `yaml:"algorithm"`
	Entries   map[string]CacheEntry `yaml:"entries"`
}

// ManifestVersion is the current cache manifest format version.
const ManifestVersion = 1

// NewCacheManifest creates an empty manifest. An empty manifest forces a full
// rebuild, which is the graceful degradation path for a missing or corrupt
// store.
func NewCacheManifest() *CacheManifest {
	return &CacheManifest{
		Version:   ManifestVersion,
		Algorithm: HashAlgorithm,
		Entries:   make(map[string]CacheEntry),
	}
}

// Lookup returns the entry for a unit path, if present.
func (m *CacheManifest) Lookup(path string) (CacheEntry, bool) {
	e, ok := m.Entries[path]
	return e, ok
}

// RecordFromCachedScan reconstructs a dependency record from a cache entry
// whose fingerprints matched the current unit. Returns false when the entry
// carries no scan result.
func RecordFromCachedScan(unit TranslationUnit, entry CacheEntry) (*DependencyRecord, bool) {
	if entry.Scan == nil {
		return nil, false
	}

	rec := &DependencyRecord{Unit: unit}
	if p := entry.Scan.Provides; p != nil {
		key := ModuleKey{Name: NewInternedString(p.Name)}
		if p.Partition != "" {
			key.Partition = NewInternedString(p.Partition)
		}
		rec.Module.Provides = &key
		rec.Module.IsInterface = p.Interface
	}
	for _, req := range entry.Scan.Requires {
		key := ModuleKey{Name: NewInternedString(req.Name)}
		if req.Partition != "" {
			key.Partition = NewInternedString(req.Partition)
		}
		rec.Module.Requires = append(rec.Module.Requires, key)
	}
	for _, inc := range entry.Scan.Includes {
		rec.Includes = append(rec.Includes, NewInternedString(inc))
	}
	return rec, true
}

// CachedScanFromRecord converts a scan result into its persisted form.
func CachedScanFromRecord(rec *DependencyRecord) *CachedScan {
	scan := &CachedScan{}
	if rec.ProvidesModule() {
		scan.Provides = &CachedProvides{
			Name:      rec.Module.Provides.Name.String(),
			Partition: rec.Module.Provides.Partition.String(),
			Interface: rec.Module.IsInterface,
		}
	}
	for _, req := range rec.Module.Requires {
		scan.Requires = append(scan.Requires, CachedRequire{
			Name:      req.Name.String(),
			Partition: req.Partition.String(),
		})
	}
	for _, inc := range rec.Includes {
		scan.Includes = append(scan.Includes, inc.String())
	}
	return scan
}
