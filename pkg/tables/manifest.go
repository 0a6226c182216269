package tables

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestFile is the manifest's file name inside an output directory.
const ManifestFile = "manifest.json"

// BottleneckSummary records how strongly the injected shipper shows up.
type BottleneckSummary struct {
	Shipper       string  `json:"shipper"`
	Configured    float64 `json:"configured_concentration"`
	Shipments     int     `json:"shipments"`
	TradeShare    float64 `json:"trade_share"`
	BatteryShare  float64 `json:"battery_share"`
	BatteryMakers int     `json:"battery_makers"`
}

// Manifest describes one generator run.
type Manifest struct {
	RunID        string             `json:"run_id"`
	Seed         int64              `json:"seed"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Vendors      int                `json:"vendors"`
	Orders       int                `json:"orders"`
	TradeRecords int                `json:"trade_records"`
	Compressed   bool               `json:"compressed"`
	Files        []FileInfo         `json:"files"`
	Bottleneck   *BottleneckSummary `json:"bottleneck,omitempty"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(seed int64, now time.Time) *Manifest {
	return &Manifest{
		RunID:       uuid.New().String(),
		Seed:        seed,
		GeneratedAt: now.UTC(),
	}
}

// Write stores the manifest as indented JSON in dir.
func (m *Manifest) Write(dir string) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return nil, fmt.Errorf("parse manifest: run_id: %w", err)
	}
	return &m, nil
}
