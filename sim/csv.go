package sim

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/cvsim/pkg/errors"
)

// csvHeader matches the column layout of the persisted results table.
var csvHeader = []string{
	"cv_name",
	"validation_score",
	"train_size",
	"dim",
	"noise_corr",
	"sep",
	"score_error",
	"score_sem",
}

// WriteCSV writes the results table to w, one row per (strategy, seed,
// train size) trial. Undefined scores are written as NaN, an explicit
// missing-data marker for downstream plotting.
func WriteCSV(w io.Writer, results []TrialResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}

	for _, r := range results {
		record := []string{
			r.Strategy,
			formatFloat(r.ValidationScore),
			strconv.Itoa(r.TrainSize),
			strconv.Itoa(r.Dim),
			formatFloat(r.NoiseCorr),
			formatFloat(r.Separability),
			formatFloat(r.ScoreError),
			formatFloat(r.ScoreSEM),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing CSV record")
		}
	}

	cw.Flush()
	return errors.WithStack(cw.Error())
}

// WriteCSVFile writes the results table to the named file.
func WriteCSVFile(path string, results []TrialResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating results file")
	}
	defer f.Close()
	return WriteCSV(f, results)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
