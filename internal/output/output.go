// Package output renders mirrored objects for the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"github.com/pshail/kmirror/pkg/reflector"
)

// Table writes one row per mirrored object. Rows arrive already sorted by
// identity, so the table order is stable across renders.
func Table(w io.Writer, objs []reflector.Object) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"NAME", "NAMESPACE", "VERSION"})
	for _, obj := range objs {
		t.AppendRow(table.Row{obj.GetName(), obj.GetNamespace(), obj.GetResourceVersion()})
	}
	t.Render()
}

// YAML writes each object as a YAML document separated by "---" markers.
func YAML(w io.Writer, objs []interface{}) error {
	for _, obj := range objs {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("marshaling object to YAML: %w", err)
		}
		if _, err := fmt.Fprintf(w, "---\n%s", data); err != nil {
			return err
		}
	}
	return nil
}
