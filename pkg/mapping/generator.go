package mapping

import (
	"io"

	"github.com/charmbracelet/log"
)

// Generator runs the collect, partition and render pipeline.
type Generator struct {
	logger *log.Logger
}

// NewGenerator creates a generator that reports progress to logger. A nil
// logger discards progress output.
func NewGenerator(logger *log.Logger) *Generator {
	return &Generator{logger: orDiscard(logger)}
}

// Generate scans root and writes the mapping document to w. Nothing is
// written to w unless every dtb was read successfully.
func (g *Generator) Generate(root string, w io.Writer) error {
	g.logger.Info("--- Reading dtb data...")
	records, err := Collect(root, g.logger)
	if err != nil {
		return err
	}

	g.logger.Info("--- Sorting and sanitizing...")
	g.logger.Info("    Figuring out duplicated compatibles...")
	partition := PartitionRecords(records)
	for _, group := range partition.Invalid {
		g.logger.Warn("duplicate main compatible", "compatible", group.Compatible, "count", len(group.Records))
	}
	g.logger.Info("    Sorting output...")

	return Render(w, partition, g.logger)
}
