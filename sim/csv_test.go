package sim

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	results := []TrialResult{
		{
			Strategy:        StrategyRepeatedKFold,
			ValidationScore: 0.97,
			TrainSize:       250,
			Dim:             300,
			NoiseCorr:       0,
			Separability:    6.25,
			ScoreError:      -0.0125,
			ScoreSEM:        0.004,
		},
		{
			Strategy:        StrategyGroupShuffle,
			ValidationScore: math.NaN(),
			TrainSize:       30,
			Dim:             300,
			NoiseCorr:       1.5,
			Separability:    6.25,
			ScoreError:      math.NaN(),
			ScoreSEM:        math.NaN(),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d CSV records, want 3 (header + 2 rows)", len(records))
	}

	wantHeader := "cv_name,validation_score,train_size,dim,noise_corr,sep,score_error,score_sem"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	first := records[1]
	if first[0] != StrategyRepeatedKFold {
		t.Errorf("cv_name = %q, want %q", first[0], StrategyRepeatedKFold)
	}
	if first[1] != "0.97" || first[2] != "250" || first[3] != "300" || first[5] != "6.25" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[6] != "-0.0125" {
		t.Errorf("score_error = %q, want -0.0125", first[6])
	}

	// Undefined scores serialize as a literal NaN marker.
	second := records[2]
	if second[1] != "NaN" || second[6] != "NaN" || second[7] != "NaN" {
		t.Errorf("NaN row = %v, want literal NaN fields", second)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty table wrote %d lines, want header only", len(lines))
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := t.TempDir() + "/results.csv"

	results := UndefinedResults(TrialConfig{TrainSize: 30, Dim: 3})
	if err := WriteCSVFile(path, results); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	// Rewriting the same path truncates rather than appends.
	if err := WriteCSVFile(path, results[:1]); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}
}
