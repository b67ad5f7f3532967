package unpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// Exported - one Lua file converted to JSON
type Exported struct {
	Source string
	Target string
}

// ExportLua converts every decompiled .lua file under src that returns a
// table into <dst>/<relative path>.json. Files that fail to evaluate or
// return something other than a table are logged and skipped.
func ExportLua(ctx context.Context, src, dst string, workers int) ([]Exported, error) {
	files, err := Find(src, ".lua")
	if err != nil {
		return nil, fmt.Errorf("list lua files: %w", err)
	}
	exported, err := Map(ctx, files, workers, func(_ context.Context, file string) ([]Exported, error) {
		rel, err := filepath.Rel(src, file)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dst, strings.TrimSuffix(rel, filepath.Ext(rel))+".json")

		value, err := gamedata.LoadLuaTable(file)
		if err != nil {
			log.Warn().Str("file", rel).Err(err).Msg("[Unpack] lua file skipped")
			return nil, nil
		}
		if value == nil {
			return nil, nil
		}
		data, err := sonic.ConfigStd.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", rel, err)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return nil, err
		}
		return []Exported{{Source: file, Target: target}}, nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int("files", len(files)).Int("exported", len(exported)).Msg("[Unpack] lua export done")
	return exported, nil
}
