package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/fingerprint"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/schema"
	"github.com/Use-Tusk/drift-node-sdk-sub004/internal/value"
)

// HashReport is the payload of the hash command.
type HashReport struct {
	Input string `json:"input"`
	*fingerprint.Result
}

// WriteText implements textWriter.
func (r HashReport) WriteText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "input:             %s\n", r.Input)
	fmt.Fprintf(w, "decodedValueHash:  %s\n", r.DecodedValueHash)
	fmt.Fprintf(w, "decodedSchemaHash: %s\n", r.DecodedSchemaHash)
	if verbose {
		fmt.Fprintln(w, "schema:")
		writeSchema(w, r.Schema)
	}
	writeDiagnostics(w, r.Diagnostics)
	return nil
}

// CompareReport is the payload of the diff and check commands.
type CompareReport struct {
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
	fingerprint.Comparison
	RecordedHashes hashes `json:"recordedHashes"`
	ReplayedHashes hashes `json:"replayedHashes"`
}

type hashes struct {
	Value  string `json:"decodedValueHash"`
	Schema string `json:"decodedSchemaHash"`
}

func newCompareReport(recordedName, replayedName string, recorded, replayed *fingerprint.Result) CompareReport {
	return CompareReport{
		Recorded:       recordedName,
		Replayed:       replayedName,
		Comparison:     fingerprint.Compare(recorded, replayed),
		RecordedHashes: hashes{recorded.DecodedValueHash, recorded.DecodedSchemaHash},
		ReplayedHashes: hashes{replayed.DecodedValueHash, replayed.DecodedSchemaHash},
	}
}

// WriteText implements textWriter.
func (r CompareReport) WriteText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "recorded: %s\n", r.Recorded)
	fmt.Fprintf(w, "replayed: %s\n", r.Replayed)
	fmt.Fprintf(w, "value:    %s\n", matchText(r.ValueMatch))
	fmt.Fprintf(w, "schema:   %s\n", matchText(r.SchemaMatch))
	if verbose {
		fmt.Fprintf(w, "recorded hashes: %s %s\n", r.RecordedHashes.Value, r.RecordedHashes.Schema)
		fmt.Fprintf(w, "replayed hashes: %s %s\n", r.ReplayedHashes.Value, r.ReplayedHashes.Schema)
	}
	if len(r.Differences) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range r.Differences {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", d.Change, d.Path, transition(d))
	}
	return tw.Flush()
}

// drift maps a comparison to the command exit policy.
func (r CompareReport) drift(strict bool) error {
	switch {
	case !r.SchemaMatch:
		return NewExitError(ExitFailure, fmt.Sprintf("schema drift: %d difference(s)", len(r.Differences)))
	case strict && !r.ValueMatch:
		return NewExitError(ExitFailure, "value drift")
	}
	return nil
}

func matchText(ok bool) string {
	if ok {
		return "match"
	}
	return "differs"
}

func transition(d schema.Difference) string {
	switch d.Change {
	case schema.Added:
		return d.Replayed
	case schema.Removed:
		return d.Recorded
	}
	return d.Recorded + " -> " + d.Replayed
}

// writeSchema prints one line per schema position, in canonical key order.
func writeSchema(w io.Writer, root *schema.Node) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var walk func(n *schema.Node, path value.Path)
	walk = func(n *schema.Node, path value.Path) {
		if n == nil {
			return
		}
		label := n.Kind.String()
		if n.Annotated() {
			label += " (" + n.Encoding.String() + "/" + n.DecodedType.String() + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", path, label)
		for _, k := range n.PropertyNames() {
			walk(n.Properties[k], path.Key(k))
		}
		walk(n.Items, path.Items())
	}
	walk(root, value.Root)
	tw.Flush()
}

func writeDiagnostics(w io.Writer, diags []schema.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "warning: %s (%s/%s): %s\n", d.Field, d.Encoding, d.DecodedType, d.Message)
	}
}
