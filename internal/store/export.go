// Package store serializes trajectories and sweep results to plain
// numeric files. No units conversion or formatting beyond number
// representation happens here.
package store

import (
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/pendlab/internal/analysis"
	"github.com/san-kum/pendlab/internal/dynamo"
)

type TrajectoryExport struct {
	Model  string        `json:"model"`
	Params dynamo.Params `json:"params"`
	Times  []float64     `json:"times"`
	States [][]float64   `json:"states"`
}

func ExportTrajectoryJSON(path, model string, p dynamo.Params, traj *dynamo.Trajectory) error {
	data := TrajectoryExport{
		Model:  model,
		Params: p,
		Times:  traj.Times,
		States: make([][]float64, traj.Len()),
	}
	for i, s := range traj.States {
		data.States[i] = s
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportTrajectoryCSV(path string, traj *dynamo.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"t", "phi1", "omega1", "phi2", "omega2"}); err != nil {
		return err
	}
	for i, s := range traj.States {
		row := make([]string, 0, 5)
		row = append(row, strconv.FormatFloat(traj.Times[i], 'g', -1, 64))
		for _, v := range s {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

type SweepExport struct {
	Dim    string    `json:"dim"`
	Values []float64 `json:"values"`
	// Observables holds null (not NaN, which JSON cannot encode) for
	// grid points whose integration failed.
	Observables []*float64 `json:"observables"`
	Failed      int        `json:"failed"`
}

func ExportSweepJSON(path string, res *analysis.SweepResult) error {
	data := SweepExport{
		Dim:         res.Dim.String(),
		Values:      res.Values(),
		Observables: make([]*float64, len(res.Points)),
		Failed:      res.Failed(),
	}
	for i := range res.Points {
		if v := res.Points[i].Observable; !math.IsNaN(v) {
			data.Observables[i] = &v
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportSweepCSV(path string, res *analysis.SweepResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{res.Dim.String(), "observable", "crossing_index"}); err != nil {
		return err
	}
	for _, p := range res.Points {
		err := w.Write([]string{
			strconv.FormatFloat(p.Value, 'g', -1, 64),
			strconv.FormatFloat(p.Observable, 'g', -1, 64),
			strconv.Itoa(p.CrossingIndex),
		})
		if err != nil {
			return err
		}
	}
	return w.Error()
}
