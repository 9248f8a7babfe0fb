// Package render serializes listing and status payloads in the format the
// caller asked for via the opaque format hint.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/lethe-storage/lethe/pkg/domain"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Render writes v to w in the given format. An empty format means json.
func Render(w io.Writer, v any, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case FormatText:
		return renderText(w, v)
	}
	return domain.NewInvalidParameterError("format",
		fmt.Sprintf("unknown output format %q (want json, yaml or text)", format))
}

// renderText prints slices one element per line and everything else via its
// default formatting, which is enough for the listing types.
func renderText(w io.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if _, err := fmt.Fprintln(w, textItem(rv.Index(i).Interface())); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "%+v\n", v)
	return err
}

func textItem(v any) string {
	switch item := v.(type) {
	case domain.DiskInfo:
		return item.Path
	case string:
		return item
	}
	return fmt.Sprintf("%+v", v)
}
