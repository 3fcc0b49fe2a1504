// Package generation implements durable storage for built index
// generations. Each generation lives in its own directory holding the
// vector payload, the ordinal-ordered record mapping and a manifest.
//
// Layout under the data directory:
//
//	<kind>/<generation-id>/vectors.bin
//	<kind>/<generation-id>/records.json
//	<kind>/<generation-id>/manifest.toml
//	<kind>/active.toml
//
// Every write lands in a temporary sibling first and is renamed into
// place, so a crash mid-write never corrupts an existing generation or
// the active marker.
package generation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.GenerationStore = (*Store)(nil)

const (
	vectorsFile  = "vectors.bin"
	recordsFile  = "records.json"
	manifestFile = "manifest.toml"
	activeFile   = "active.toml"
	tmpPrefix    = ".tmp-"
)

// manifest is the on-disk generation metadata.
type manifest struct {
	ID          string    `toml:"id"`
	Kind        string    `toml:"kind"`
	ModelName   string    `toml:"model_name"`
	Dimensions  int       `toml:"dimensions"`
	RecordCount int       `toml:"record_count"`
	BuiltAt     time.Time `toml:"built_at"`
}

// activeMarker is the on-disk active pointer.
type activeMarker struct {
	Generation string    `toml:"generation"`
	PromotedAt time.Time `toml:"promoted_at"`
}

// Store persists generations under a root data directory.
type Store struct {
	root string
}

// NewStore creates a generation store rooted at dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".shelfsearch", "data")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{root: dataDir}, nil
}

// Root returns the data directory path.
func (s *Store) Root() string { return s.root }

// Save implements driven.GenerationStore. The generation is staged in a
// temporary directory and renamed into place; partial artifacts are
// removed on failure.
func (s *Store) Save(ctx context.Context, gen *domain.Generation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(gen.Vectors) != len(gen.Records) || len(gen.Records) != gen.Info.RecordCount {
		return fmt.Errorf("%w: generation %s: %d vectors, %d records, count %d",
			domain.ErrInvalidInput, gen.Info.ID, len(gen.Vectors), len(gen.Records), gen.Info.RecordCount)
	}

	kindDir := filepath.Join(s.root, gen.Info.Kind.String())
	if err := os.MkdirAll(kindDir, 0o700); err != nil {
		return fmt.Errorf("creating kind directory: %w", err)
	}

	tmpDir := filepath.Join(kindDir, tmpPrefix+gen.Info.ID)
	if err := s.writeGeneration(tmpDir, gen); err != nil {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			logger.Warn("Failed to remove partial generation %s: %v", tmpDir, rmErr)
		}
		return err
	}

	finalDir := filepath.Join(kindDir, gen.Info.ID)
	if err := os.Rename(tmpDir, finalDir); err != nil {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			logger.Warn("Failed to remove partial generation %s: %v", tmpDir, rmErr)
		}
		return fmt.Errorf("finalise generation %s: %w", gen.Info.ID, err)
	}

	logger.Debug("Persisted generation %s under %s", gen.Info.ID, finalDir)
	return nil
}

func (s *Store) writeGeneration(dir string, gen *domain.Generation) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating generation directory: %w", err)
	}

	vectors, err := encodeVectors(gen.Info.Dimensions, gen.Vectors)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, vectorsFile), vectors, 0o600); err != nil {
		return fmt.Errorf("write vectors: %w", err)
	}

	records, err := encodeRecords(gen.Info.Kind, gen.Records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, recordsFile), records, 0o600); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	man, err := toml.Marshal(manifest{
		ID:          gen.Info.ID,
		Kind:        gen.Info.Kind.String(),
		ModelName:   gen.Info.ModelName,
		Dimensions:  gen.Info.Dimensions,
		RecordCount: gen.Info.RecordCount,
		BuiltAt:     gen.Info.BuiltAt,
	})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), man, 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load implements driven.GenerationStore.
func (s *Store) Load(ctx context.Context, kind domain.Kind, generationID string) (*domain.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, kind.String(), generationID)
	info, err := s.readManifest(dir)
	if err != nil {
		return nil, err
	}

	vectorData, err := os.ReadFile(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("read vectors for %s: %w", generationID, err)
	}
	vectors, err := decodeVectors(vectorData)
	if err != nil {
		return nil, fmt.Errorf("decode vectors for %s: %w", generationID, err)
	}

	recordData, err := os.ReadFile(filepath.Join(dir, recordsFile))
	if err != nil {
		return nil, fmt.Errorf("read records for %s: %w", generationID, err)
	}
	records, err := decodeRecords(recordData)
	if err != nil {
		return nil, fmt.Errorf("decode records for %s: %w", generationID, err)
	}

	if len(vectors) != len(records) || len(records) != info.RecordCount {
		return nil, fmt.Errorf("generation %s is inconsistent: %d vectors, %d records, manifest count %d",
			generationID, len(vectors), len(records), info.RecordCount)
	}

	return &domain.Generation{Info: info, Vectors: vectors, Records: records}, nil
}

// ActiveID implements driven.GenerationStore.
func (s *Store) ActiveID(ctx context.Context, kind domain.Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.root, kind.String(), activeFile))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: no active %s generation", domain.ErrNotFound, kind)
	}
	if err != nil {
		return "", fmt.Errorf("read active marker: %w", err)
	}

	var marker activeMarker
	if err := toml.Unmarshal(data, &marker); err != nil {
		return "", fmt.Errorf("parse active marker: %w", err)
	}
	if marker.Generation == "" {
		return "", fmt.Errorf("%w: active marker for %s is empty", domain.ErrNotFound, kind)
	}
	return marker.Generation, nil
}

// SetActive implements driven.GenerationStore. The marker file is
// replaced atomically via rename.
func (s *Store) SetActive(ctx context.Context, kind domain.Kind, generationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(s.root, kind.String())
	if _, err := os.Stat(filepath.Join(dir, generationID, manifestFile)); err != nil {
		return fmt.Errorf("%w: generation %s for kind %s", domain.ErrNotFound, generationID, kind)
	}

	data, err := toml.Marshal(activeMarker{
		Generation: generationID,
		PromotedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal active marker: %w", err)
	}

	tmp := filepath.Join(dir, tmpPrefix+activeFile)
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write active marker: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, activeFile)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace active marker: %w", err)
	}
	return nil
}

// List implements driven.GenerationStore. Results are newest first;
// generation ids carry a timestamp prefix so lexical order is
// chronological.
func (s *Store) List(ctx context.Context, kind domain.Kind) ([]domain.GenerationInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, kind.String()))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s generations: %w", kind, err)
	}

	var infos []domain.GenerationInfo
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}
		info, err := s.readManifest(filepath.Join(s.root, kind.String(), entry.Name()))
		if err != nil {
			logger.Warn("Skipping unreadable generation %s/%s: %v", kind, entry.Name(), err)
			continue
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID > infos[j].ID })
	return infos, nil
}

// Prune implements driven.GenerationStore. The active generation is
// never deleted; beyond it the retain most recent generations survive.
// Stale temporary directories from interrupted writes are removed too.
func (s *Store) Prune(ctx context.Context, kind domain.Kind, retain int) error {
	activeID, err := s.ActiveID(ctx, kind)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		activeID = ""
	}

	infos, err := s.List(ctx, kind)
	if err != nil {
		return err
	}

	kept := 0
	for _, info := range infos {
		if info.ID == activeID {
			continue
		}
		if kept < retain {
			kept++
			continue
		}
		dir := filepath.Join(s.root, kind.String(), info.ID)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("prune generation %s: %w", info.ID, err)
		}
		logger.Debug("Pruned generation %s/%s", kind, info.ID)
	}

	return s.removeStaleTemp(kind)
}

func (s *Store) removeStaleTemp(kind domain.Kind) error {
	entries, err := os.ReadDir(filepath.Join(s.root, kind.String()))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), tmpPrefix) {
			if err := os.RemoveAll(filepath.Join(s.root, kind.String(), entry.Name())); err != nil {
				return fmt.Errorf("remove stale temp %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

func (s *Store) readManifest(dir string) (domain.GenerationInfo, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if os.IsNotExist(err) {
		return domain.GenerationInfo{}, fmt.Errorf("%w: %s", domain.ErrNotFound, dir)
	}
	if err != nil {
		return domain.GenerationInfo{}, fmt.Errorf("read manifest: %w", err)
	}

	var man manifest
	if err := toml.Unmarshal(data, &man); err != nil {
		return domain.GenerationInfo{}, fmt.Errorf("parse manifest: %w", err)
	}

	kind, err := domain.ParseKind(man.Kind)
	if err != nil {
		return domain.GenerationInfo{}, err
	}
	return domain.GenerationInfo{
		ID:          man.ID,
		Kind:        kind,
		ModelName:   man.ModelName,
		Dimensions:  man.Dimensions,
		RecordCount: man.RecordCount,
		BuiltAt:     man.BuiltAt,
	}, nil
}
