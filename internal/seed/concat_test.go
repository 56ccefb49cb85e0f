package seed

import (
	"strings"
	"testing"
)

func TestConcat_ColumnUnionWithNulls(t *testing.T) {
	sets := []ContribSet{
		{Name: "alpha", Records: []Record{
			{"chunk": "a1", "question_1": "q"},
			{"chunk": "a2", "question_1": "q"},
		}},
		{Name: "beta", Records: []Record{
			{"chunk": "b1", "extra": "x"},
		}},
	}

	out, err := Concat(sets)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected sum of row counts (3), got %d", len(out))
	}

	for i, row := range out {
		for _, col := range []string{"chunk", "question_1", "extra"} {
			if _, ok := row[col]; !ok {
				t.Errorf("row %d: missing column %q", i, col)
			}
		}
	}
	if out[0]["extra"] != nil {
		t.Errorf("alpha rows should carry null extra, got %v", out[0]["extra"])
	}
	if out[2]["question_1"] != nil {
		t.Errorf("beta rows should carry null question_1, got %v", out[2]["question_1"])
	}
	if out[2]["chunk"] != "b1" {
		t.Errorf("rows must keep input order across sets, got %v", out[2]["chunk"])
	}
}

func TestConcat_KindConflict(t *testing.T) {
	sets := []ContribSet{
		{Name: "alpha", Records: []Record{{"metadata": map[string]any{"k": "v"}}}},
		{Name: "beta", Records: []Record{{"metadata": "flat string"}}},
	}

	_, err := Concat(sets)
	if err == nil {
		t.Fatal("expected kind conflict error")
	}
	for _, want := range []string{"metadata", "alpha", "beta"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %q", err, want)
		}
	}
}

func TestConcat_NullsDoNotEstablishKind(t *testing.T) {
	sets := []ContribSet{
		{Name: "alpha", Records: []Record{{"col": nil}}},
		{Name: "beta", Records: []Record{{"col": []any{"v"}}}},
	}

	out, err := Concat(sets)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
}

func TestConcat_AllNullColumnSurvives(t *testing.T) {
	sets := []ContribSet{
		{Name: "alpha", Records: []Record{{"chunk": "a", "optional": nil}}},
		{Name: "beta", Records: []Record{{"chunk": "b"}}},
	}

	out, err := Concat(sets)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	for i, row := range out {
		v, ok := row["optional"]
		if !ok {
			t.Errorf("row %d: all-null column dropped from union", i)
		}
		if v != nil {
			t.Errorf("row %d: optional = %v, want null", i, v)
		}
	}
}

func TestConcat_Empty(t *testing.T) {
	out, err := Concat(nil)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty dataset, got %d rows", len(out))
	}
}
