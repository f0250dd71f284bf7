package transform

import (
	"fmt"
	"testing"

	"github.com/gyeh/admitstats/internal/table"
)

func TestPreprocessForModel_TargetSplit(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("length_of_stay", "readmission_status")
	in.MustAppendRow(int64(3), true)
	in.MustAppendRow(int64(5), false)

	out, labels, err := tr.PreprocessForModel(in, "readmission_status")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}
	if out.HasColumn("readmission_status") {
		t.Error("target column should be split out")
	}
	if len(labels) != 2 {
		t.Fatalf("labels = %d, want 2", len(labels))
	}
	if v, _ := table.Bool(labels[0]); !v {
		t.Errorf("labels[0] = %v, want true", labels[0])
	}
}

func TestPreprocessForModel_MedianImpute(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("age", "cost")
	in.MustAppendRow(int64(20), 10.0)
	in.MustAppendRow(nil, nil)
	in.MustAppendRow(int64(40), 30.0)
	in.MustAppendRow(int64(60), nil)

	out, _, err := tr.PreprocessForModel(in, "")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}

	// int column imputes with the int median
	if v, _ := table.Int(out.Value(1, "age")); v != 40 {
		t.Errorf("imputed age = %v, want 40", out.Value(1, "age"))
	}
	if _, ok := out.Value(1, "age").(int64); !ok {
		t.Errorf("imputed age type = %T, want int64", out.Value(1, "age"))
	}
	// float column imputes with the float median
	if v, _ := table.Float(out.Value(1, "cost")); v != 20.0 {
		t.Errorf("imputed cost = %v, want 20", out.Value(1, "cost"))
	}
}

func TestPreprocessForModel_CategoricalEncoding(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("gender")
	in.MustAppendRow("m")
	in.MustAppendRow("f")
	in.MustAppendRow(nil)
	in.MustAppendRow("f")

	out, _, err := tr.PreprocessForModel(in, "")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}

	if out.HasColumn("gender") {
		t.Error("original categorical column should be dropped")
	}
	// categories sorted {f, m, unknown}; "f" is the dropped reference
	if out.HasColumn("gender_f") {
		t.Error("reference category should not get an indicator")
	}
	if !out.HasColumn("gender_m") || !out.HasColumn("gender_unknown") {
		t.Fatalf("indicator columns missing: %v", out.Columns())
	}
	if v, _ := table.Int(out.Value(0, "gender_m")); v != 1 {
		t.Errorf("row 0 gender_m = %v, want 1", out.Value(0, "gender_m"))
	}
	if v, _ := table.Int(out.Value(1, "gender_m")); v != 0 {
		t.Errorf("row 1 gender_m = %v, want 0", out.Value(1, "gender_m"))
	}
	if v, _ := table.Int(out.Value(2, "gender_unknown")); v != 1 {
		t.Errorf("row 2 gender_unknown = %v, want 1", out.Value(2, "gender_unknown"))
	}
}

func TestPreprocessForModel_SingleCategoryDropped(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("constant")
	in.MustAppendRow("only")
	in.MustAppendRow("only")

	out, _, err := tr.PreprocessForModel(in, "")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}
	if len(out.Columns()) != 0 {
		t.Errorf("single-category column should vanish entirely, got %v", out.Columns())
	}
}

func TestPreprocessForModel_RareCollapse(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("code")
	// 25 distinct values over 400 rows: the dominant one covers most rows,
	// the rest fall under the 1% cutoff.
	for i := 0; i < 376; i++ {
		in.MustAppendRow("common")
	}
	for i := 0; i < 24; i++ {
		in.MustAppendRow(fmt.Sprintf("rare_%d", i))
	}

	out, _, err := tr.PreprocessForModel(in, "")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}
	if !out.HasColumn("code_other") && !out.HasColumn("code_common") {
		t.Fatalf("expected collapsed indicators, got %v", out.Columns())
	}
	// only {common, other} remain: sorted, "common" is the reference, so a
	// single "code_other" indicator survives
	if got := len(out.Columns()); got != 1 {
		t.Errorf("columns = %v, want exactly one indicator", out.Columns())
	}
	if v, _ := table.Int(out.Value(399, "code_other")); v != 1 {
		t.Errorf("rare row code_other = %v, want 1", out.Value(399, "code_other"))
	}
	if v, _ := table.Int(out.Value(0, "code_other")); v != 0 {
		t.Errorf("common row code_other = %v, want 0", out.Value(0, "code_other"))
	}
}

func TestPreprocessForModel_LowCardinalityKeptIntact(t *testing.T) {
	tr := newTestTransformer()
	in := table.New("g")
	for i := 0; i < 200; i++ {
		in.MustAppendRow("a")
	}
	in.MustAppendRow("b")

	out, _, err := tr.PreprocessForModel(in, "")
	if err != nil {
		t.Fatalf("PreprocessForModel: %v", err)
	}
	// two distinct values are far below the cardinality threshold, so the
	// rare one is not collapsed
	if !out.HasColumn("g_b") {
		t.Errorf("expected g_b indicator, got %v", out.Columns())
	}
}

func TestPreprocessForModel_IndicatorNameCollision(t *testing.T) {
	tr := newTestTransformer()
	// "gender_m" already exists, colliding with the indicator generated
	// for the "m" category of "gender".
	in := table.New("gender", "gender_m")
	in.MustAppendRow("m", int64(9))
	in.MustAppendRow("f", int64(9))

	_, _, err := tr.PreprocessForModel(in, "")
	if err == nil {
		t.Fatal("expected error for indicator name collision")
	}
}
