package fast

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// config is the on-disk form of Options.
type config struct {
	Threshold         int  `json:"threshold"`
	SegmentLength     int  `json:"segment_length"`
	NonMaxSuppression bool `json:"non_max_suppression"`
}

// LoadOptions reads detection options from a JSON file. Loaded options are
// validated the same way Detect validates them.
//
// Arguments:
//   - path: JSON file with threshold, segment_length and
//     non_max_suppression fields.
//
// Returns:
//   - Options: Parsed options.
//   - error: Non-nil if the file cannot be read, parsed, or holds an
//     invalid segment length.
func LoadOptions(path string) (Options, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Options{}, errors.Wrapf(err, "fast: reading config %s", path)
	}
	var cfg config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Options{}, errors.Wrapf(err, "fast: parsing config %s", path)
	}
	if cfg.SegmentLength < 9 || cfg.SegmentLength > 12 {
		return Options{}, errors.Errorf("fast: segment length must be in {9,10,11,12}, got %d", cfg.SegmentLength)
	}
	return Options{
		Threshold:         cfg.Threshold,
		SegmentLength:     cfg.SegmentLength,
		NonMaxSuppression: cfg.NonMaxSuppression,
	}, nil
}
