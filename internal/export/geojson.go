// Package export renders the annotation layer as GeoJSON so layouts can
// be inspected in standard GIS tooling. Stations become Point features;
// lines become LineString features traced along their curve geometry.
package export

import (
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/railmap/editor/internal/store"
)

// FeatureCollection builds a GeoJSON feature collection from the store.
func FeatureCollection(st *store.Store) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, s := range st.Stations() {
		f := geojson.NewPointFeature([]float64{s.Position.X, s.Position.Y, s.Position.Z})
		f.SetProperty("kind", "station")
		f.SetProperty("id", s.ID)
		f.SetProperty("name", s.Name)
		f.SetProperty("elevation", s.Position.Z)
		fc.AddFeature(f)
	}

	for _, l := range st.Lines() {
		curve, ok := st.Curve(l.ID)
		if !ok {
			continue
		}
		seq := curve.Coordinates()
		coords := make([][]float64, seq.Length())
		for i := 0; i < seq.Length(); i++ {
			c := seq.Get(i)
			coords[i] = []float64{c.X, c.Y, c.Z}
		}

		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("kind", "line")
		f.SetProperty("id", l.ID)
		f.SetProperty("name", l.Name)
		f.SetProperty("color", l.Color.Hex())
		f.SetProperty("stationIds", l.StationIDs)
		fc.AddFeature(f)
	}

	return fc
}

// WriteFile marshals the store's annotation layer to a GeoJSON file.
func WriteFile(st *store.Store, path string) error {
	fc := FeatureCollection(st)
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
