package convert

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/segmentio/encoding/json"
)

// Report is the JSON run report written next to the output.
type Report struct {
	RunID     string        `json:"run_id"`
	Input     string        `json:"input"`
	Outputs   []string      `json:"outputs"`
	Mode      string        `json:"mode"`
	Texture   string        `json:"texture,omitempty"`
	Seed      uint64        `json:"seed,omitempty"`
	Scale     float64       `json:"scale"`
	Faces     ReportFaces   `json:"faces"`
	Voxels    ReportVoxels  `json:"voxels"`
	Fill      *ReportFill   `json:"fill,omitempty"`
	Blocks    []ReportBlock `json:"blocks"`
	Duration  string        `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// ReportFaces counts faces by outcome.
type ReportFaces struct {
	Quads   int `json:"quads"`
	Dropped int `json:"dropped"`
	Skipped int `json:"skipped"`
}

// ReportVoxels counts voxels per stage.
type ReportVoxels struct {
	Shell    int `json:"shell"`
	Filled   int `json:"filled"`
	Total    int `json:"total"`
	Colored  int `json:"colored"`
	Fallback int `json:"fallback"`
}

// ReportFill describes the interior fill.
type ReportFill struct {
	Seed        [3]int `json:"seed"`
	Filled      int    `json:"filled"`
	Truncated   bool   `json:"truncated"`
	SeedOnShell bool   `json:"seed_on_shell"`
}

// ReportBlock is one palette entry of the output.
type ReportBlock struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// NewReport builds a report from a result. Blocks are sorted by count,
// most used first, then by id.
func NewReport(res *Result) *Report {
	r := &Report{
		RunID:   res.RunID,
		Input:   res.Input,
		Outputs: res.Outputs,
		Mode:    res.Mode,
		Texture: res.Texture,
		Seed:    res.Seed,
		Scale:   res.Scale,
		Faces: ReportFaces{
			Quads:   res.Faces,
			Dropped: res.DroppedFaces,
			Skipped: res.SkippedFaces,
		},
		Voxels: ReportVoxels{
			Shell:    res.ShellVoxels,
			Filled:   res.FilledVoxels,
			Total:    res.TotalVoxels,
			Colored:  res.Colored,
			Fallback: res.Fallback,
		},
		Duration:  res.Duration.String(),
		CreatedAt: time.Now().UTC(),
	}
	if res.Fill != nil {
		r.Fill = &ReportFill{
			Seed:        [3]int{res.Fill.Seed.X, res.Fill.Seed.Y, res.Fill.Seed.Z},
			Filled:      res.Fill.Filled,
			Truncated:   res.Fill.Truncated,
			SeedOnShell: res.Fill.SeedOnShell,
		}
	}

	r.Blocks = make([]ReportBlock, 0, len(res.Blocks))
	for id, n := range res.Blocks {
		r.Blocks = append(r.Blocks, ReportBlock{ID: id, Count: n})
	}
	sort.Slice(r.Blocks, func(i, j int) bool {
		if r.Blocks[i].Count != r.Blocks[j].Count {
			return r.Blocks[i].Count > r.Blocks[j].Count
		}
		return r.Blocks[i].ID < r.Blocks[j].ID
	})
	return r
}

// WriteReport writes the JSON report for res to path.
func WriteReport(path string, res *Result) error {
	data, err := json.MarshalIndent(NewReport(res), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}
