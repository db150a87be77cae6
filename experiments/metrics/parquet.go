package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

type GameRow struct {
	ID             string `parquet:"id"`
	Index          int32  `parquet:"index"`
	AgentX         int32  `parquet:"agent_x"`
	AgentO         int32  `parquet:"agent_o"`
	StartingPlayer string `parquet:"starting_player,dict"`
	Winner         string `parquet:"winner,dict"`
	StartTimeMs    int64  `parquet:"start_time_ms"`
	DurationMs     int64  `parquet:"duration_ms"`
	TotalMoves     int32  `parquet:"total_moves"`
}

type MoveRow struct {
	Game        string `parquet:"game,dict"`
	Step        int32  `parquet:"step"`
	Player      string `parquet:"player,dict"`
	Column      int32  `parquet:"column"`
	Goroutines  int32  `parquet:"goroutines"`
	DurationUs  int64  `parquet:"duration_us"`
	Simulations int64  `parquet:"simulations"`
	TreeSize    int64  `parquet:"tree_size"`
	MaxDepth    int32  `parquet:"max_depth"`
	TreeReused  bool   `parquet:"tree_reused"`
	StopReason  string `parquet:"stop_reason,dict"`
}

func (w *Writer) WriteGameParquet(records []GameRecord) error {
	rows := make([]GameRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, GameRow{
			ID:             r.ID,
			Index:          int32(r.Index),
			AgentX:         int32(r.AgentX),
			AgentO:         int32(r.AgentO),
			StartingPlayer: r.StartingPlayer,
			Winner:         r.Winner,
			StartTimeMs:    r.StartTime.UnixMilli(),
			DurationMs:     r.Duration.Milliseconds(),
			TotalMoves:     int32(r.TotalMoves),
		})
	}
	return writeParquet(filepath.Join(w.baseDir, "game_records.parquet"), rows, "game_record_v1")
}

func (w *Writer) WriteMoveParquet(records []MoveRecord) error {
	rows := make([]MoveRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, MoveRow{
			Game:        r.Game,
			Step:        int32(r.Step),
			Player:      r.Player,
			Column:      int32(r.Column),
			Goroutines:  int32(r.Goroutines),
			DurationUs:  r.Duration.Microseconds(),
			Simulations: int64(r.Simulations),
			TreeSize:    int64(r.TreeSize),
			MaxDepth:    int32(r.MaxDepth),
			TreeReused:  r.TreeReused,
			StopReason:  r.StopReason,
		})
	}
	return writeParquet(filepath.Join(w.baseDir, "move_records.parquet"), rows, "move_record_v1")
}

// writeParquet writes to a temp file and renames it so readers never see a
// partial file.
func writeParquet[T any](path string, rows []T, schema string) error {
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
