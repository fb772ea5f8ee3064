package mapping

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/dtbdata"
)

// Values of the header node. Consumers parse these, keep them stable.
const (
	SchemaVersion     = "0.1"
	GeneratorName     = "fdtshim-mapping-generator"
	MappingCompatible = "fdtshim,mapping"
)

// NoWarnings is the warning block emitted when nothing collided.
const NoWarnings = "/* No warnings during generation */"

// Render writes the mapping document for p to w.
func Render(w io.Writer, p Partition, logger *log.Logger) error {
	logger = orDiscard(logger)
	var buf bytes.Buffer

	writeHeader(&buf)

	logger.Info("    Writing out warnings...")
	writeWarnings(&buf, p.Invalid)
	buf.WriteString("\n")

	logger.Info("    Writing data...")
	writeMapping(&buf, p.Valid)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("/dts-v1/;\n")
	buf.WriteString("\n")
	buf.WriteString("/ {\n")
	fmt.Fprintf(buf, "\tfdtshim,schema-version = %s;\n", dtbdata.Quote(SchemaVersion))
	fmt.Fprintf(buf, "\tfdtshim,generator = %s;\n", dtbdata.Quote(GeneratorName))
	fmt.Fprintf(buf, "\tcompatible = %s;\n", dtbdata.Quote(MappingCompatible))
	buf.WriteString("};\n")
	buf.WriteString("\n")
}

func writeWarnings(buf *bytes.Buffer, invalid []Group) {
	if len(invalid) == 0 {
		buf.WriteString(NoWarnings + "\n")
		return
	}

	buf.WriteString("/*\n")
	buf.WriteString(" * WARNING: These dtb files share the main compatible names.\n")
	buf.WriteString(" *          No action has been taken for them.\n")
	for _, group := range invalid {
		buf.WriteString(" *\n")
		fmt.Fprintf(buf, " * - %s\n", dtbdata.CommentSafe(group.Compatible))
		for _, rec := range group.Records {
			fmt.Fprintf(buf, " *     - %s\n", dtbdata.CommentSafe(rec.Path))
		}
	}
	buf.WriteString(" */\n")
}

func writeMapping(buf *bytes.Buffer, valid []*dtbdata.Record) {
	buf.WriteString("/ {\n")
	buf.WriteString("\tmapping {\n")
	for _, rec := range valid {
		fmt.Fprintf(buf, "\t\t/* %s: %s */\n", dtbdata.CommentSafe(rec.Model), dtbdata.CommentSafe(rec.CompatiblesDebug()))
		fmt.Fprintf(buf, "\t\t%s {\n", rec.NodeName())
		fmt.Fprintf(buf, "\t\t\tdtb = %s;\n", dtbdata.Quote(rec.Path))
		fmt.Fprintf(buf, "\t\t\tmodel = %s;\n", dtbdata.Quote(rec.Model))
		fmt.Fprintf(buf, "\t\t\tcompatible = %s;\n", rec.CompatiblesSource())
		buf.WriteString("\t\t};\n")
	}
	buf.WriteString("\t};\n")
	buf.WriteString("};\n")
}
