package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/polyspring/internal/analysis"
	"github.com/san-kum/polyspring/internal/scene"
)

// SpringRecord is one CSV row: a spring and the field it belongs to.
type SpringRecord struct {
	Field      string  `csv:"field" json:"field"`
	Kind       string  `csv:"kind" json:"kind"`
	Index      int     `csv:"index" json:"index"`
	First      int     `csv:"first" json:"first"`
	Second     int     `csv:"second" json:"second"`
	Group      int     `csv:"group" json:"group"`
	Length     float64 `csv:"length" json:"length"`
	ZeroLength float64 `csv:"zero_length" json:"zero_length"`
	Strain     float64 `csv:"strain" json:"strain"`
	Force      float64 `csv:"force" json:"force"`
	Sign       float64 `csv:"sign" json:"sign"`
}

type ExportData struct {
	Scene   string              `json:"scene"`
	KFactor float64             `json:"k_factor"`
	BFactor float64             `json:"b_factor"`
	Fields  []scene.FieldReport `json:"fields"`
}

// Records flattens the reports into one row per spring.
func Records(reports []scene.FieldReport) []SpringRecord {
	var out []SpringRecord
	for _, r := range reports {
		for _, s := range r.Springs {
			out = append(out, SpringRecord{
				Field:      r.Name,
				Kind:       r.Kind,
				Index:      s.Index,
				First:      s.First,
				Second:     s.Second,
				Group:      s.Group,
				Length:     s.Length,
				ZeroLength: s.ZeroLength,
				Strain:     s.Strain,
				Force:      s.Force,
				Sign:       s.Sign,
			})
		}
	}
	return out
}

func WriteSpringsCSV(w io.Writer, reports []scene.FieldReport) error {
	records := Records(reports)
	if records == nil {
		records = []SpringRecord{}
	}
	return gocsv.Marshal(&records, w)
}

func WriteCurveCSV(w io.Writer, samples []analysis.Sample) error {
	return gocsv.Marshal(&samples, w)
}

func ReadSpringsCSV(r io.Reader) ([]SpringRecord, error) {
	var records []SpringRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func ExportJSON(w io.Writer, s *scene.Scene) error {
	mp := s.Params()
	data := ExportData{
		Scene:   s.Name,
		KFactor: mp.KFactor,
		BFactor: mp.BFactor,
		Fields:  s.Report(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportFile writes to path, or to stdout when path is "-".
func ExportFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
