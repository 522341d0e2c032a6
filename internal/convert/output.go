package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/obj2nbt/internal/config"
	"github.com/Faultbox/obj2nbt/pkg/nbt"
	"github.com/Faultbox/obj2nbt/pkg/voxel"
)

// OutputPath returns the structure file path for input. An empty output
// replaces the input extension; a missing .nbt suffix is appended.
func OutputPath(input, output string) string {
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".nbt"
	}
	if !strings.HasSuffix(output, ".nbt") {
		output += ".nbt"
	}
	return output
}

// ChunkPath names a chunk file after the first cell it holds.
func ChunkPath(output string, first voxel.Coord) string {
	return fmt.Sprintf("%s_%d_%d_%d.nbt", strings.TrimSuffix(output, ".nbt"), first.X, first.Y, first.Z)
}

// writeStructures writes assign to output, split into chunk files when
// chunking is enabled and yields more than one chunk.
func writeStructures(output string, assign voxel.Assignment, conv config.ConversionConfig, log *zap.Logger) ([]string, error) {
	chunks := voxel.Chunk(assign.Sorted(), conv.ChunkSize)
	if len(chunks) <= 1 {
		if err := writeStructure(output, assign, conv.DataVersion); err != nil {
			return nil, err
		}
		log.Info("wrote structure", zap.String("path", output), zap.Int("blocks", len(assign)))
		return []string{output}, nil
	}

	log.Info("writing chunks", zap.Int("chunks", len(chunks)), zap.String("base", output))
	paths := make([]string, 0, len(chunks))
	for _, cells := range chunks {
		path := ChunkPath(output, cells[0])
		if err := writeStructure(path, assign.Subset(cells), conv.DataVersion); err != nil {
			return nil, err
		}
		log.Debug("wrote chunk", zap.String("path", path), zap.Int("blocks", len(cells)))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeStructure(path string, assign voxel.Assignment, dataVersion int32) error {
	s, err := voxel.BuildStructure(assign)
	if err != nil {
		return err
	}
	return nbt.WriteStructureFile(path, s, dataVersion)
}
