// Package geo converts event venue points between the GeoJSON used on the
// wire and the WKB stored in the events table.
package geo

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

var ErrNotPoint = errors.New("venue geometry must be a GeoJSON Point")

// PointToWKB parses a GeoJSON Point and returns its WKB encoding.
// An empty string yields nil.
func PointToWKB(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("invalid geojson: %w", err)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, ErrNotPoint
	}
	return wkb.Marshal(p, binary.LittleEndian)
}

// WKBToGeoJSON converts WKB bytes into a GeoJSON string.
func WKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
