package sh

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// WriteText writes the set grouped by band:
//
//	{
//	    band0: [ c00 ]
//	    band1: [ c1-1, c10, c11 ]
//	}
func WriteText[T Sample[T]](w io.Writer, c Coefficients[T]) error {
	return writeBands(w, c.Bands, func(l int) []string {
		band := c.Band(l)
		values := make([]string, len(band))
		for i, v := range band {
			values[i] = fmt.Sprint(v)
		}
		return values
	})
}

// WriteChannel writes a single color channel of the set in the WriteText layout.
func WriteChannel(w io.Writer, c Coefficients[core.Color], channel int) error {
	return WriteText(w, Channel(c, channel))
}

func writeBands(w io.Writer, bands int, format func(l int) []string) error {
	var sb strings.Builder
	sb.WriteString("{\n")
	for l := 0; l <= bands; l++ {
		fmt.Fprintf(&sb, "    band%d: [ %s ]\n", l, strings.Join(format(l), ", "))
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// jsonCoefficients is the JSON shape of a set: coefficients grouped per band.
type jsonCoefficients[T any] struct {
	Bands        int   `json:"bands"`
	Coefficients [][]T `json:"coefficients"`
}

// MarshalJSON encodes the set with coefficients grouped per band.
func (c Coefficients[T]) MarshalJSON() ([]byte, error) {
	out := jsonCoefficients[T]{Bands: c.Bands, Coefficients: make([][]T, c.Bands+1)}
	for l := 0; l <= c.Bands; l++ {
		out.Coefficients[l] = c.Band(l)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the per-band layout written by MarshalJSON.
func (c *Coefficients[T]) UnmarshalJSON(data []byte) error {
	var in jsonCoefficients[T]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Bands < 0 || len(in.Coefficients) != in.Bands+1 {
		return fmt.Errorf("sh: expected %d bands of coefficients, got %d", in.Bands+1, len(in.Coefficients))
	}
	result := New[T](in.Bands)
	for l, band := range in.Coefficients {
		if len(band) != 2*l+1 {
			return fmt.Errorf("sh: band %d has %d coefficients, want %d", l, len(band), 2*l+1)
		}
		copy(result.Band(l), band)
	}
	*c = result
	return nil
}

// WriteJSON writes v as indented JSON. Coefficient sets inside v use the
// per-band layout of MarshalJSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
