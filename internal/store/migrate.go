package store

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"
)

type MigrateResult struct {
	FromDir    string   `json:"fromDir" yaml:"fromDir"`
	FromFormat Format   `json:"fromFormat" yaml:"fromFormat"`
	ToDir      string   `json:"toDir" yaml:"toDir"`
	ToFormat   Format   `json:"toFormat" yaml:"toFormat"`
	Solutions  []string `json:"solutions" yaml:"solutions"`
	Paths      []string `json:"paths" yaml:"paths"`
}

// Migrate copies every solution of src into dst, typically to change the backend.
// Source files are left in place. All solutions are read before the first write.
func Migrate(ctx context.Context, src, dst Store) (MigrateResult, error) {
	res := MigrateResult{
		FromDir:    src.Dir,
		FromFormat: src.backend().Format(),
		ToDir:      dst.Dir,
		ToFormat:   dst.backend().Format(),
	}
	if filepath.Clean(src.Dir) == filepath.Clean(dst.Dir) && res.FromFormat == res.ToFormat {
		return res, errors.New("migrate: source and destination are the same")
	}
	trees, err := src.LoadAll(ctx)
	if err != nil {
		return res, err
	}
	if err := dst.SaveAll(ctx, trees); err != nil {
		return res, err
	}
	for _, t := range trees {
		res.Solutions = append(res.Solutions, t.Name())
		res.Paths = append(res.Paths, dst.Path(t.Name()))
	}
	dst.log().Info("store.migrate",
		zap.String("from", string(res.FromFormat)),
		zap.String("to", string(res.ToFormat)),
		zap.Int("solutions", len(trees)))
	return res, nil
}
