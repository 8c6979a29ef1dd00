package outline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	r := Result{
		Title:   "R&D <Plan>  ",
		Outline: []Heading{{Level: H1, Text: "Überblick ", Page: 1}},
	}
	if err := Encode(&buf, r); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{
    "title": "R&D <Plan>  ",
    "outline": [
        {
            "level": "H1",
            "text": "Überblick ",
            "page": 1
        }
    ]
}
`
	if buf.String() != want {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}
}

func TestEncode_KeepsMarkupCharacters(t *testing.T) {
	res := classify(
		pg(1, ln("Q&A <Draft>", 24, false)),
		pg(2, ln("1. Terms & <Conditions>", 16, false)),
	)
	var buf bytes.Buffer
	if err := Encode(&buf, res); err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, want := range []string{`"Q&A <Draft>  "`, `"1. Terms & <Conditions> "`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s verbatim, got:\n%s", want, buf.String())
		}
	}
	for _, esc := range []string{`\u0026`, `\u003c`, `\u003e`} {
		if strings.Contains(buf.String(), esc) {
			t.Errorf("unexpected escape %s in:\n%s", esc, buf.String())
		}
	}

	// A nil outline goes through the same path.
	buf.Reset()
	if err := Encode(&buf, Result{Title: "a<b"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"title": "a<b"`) || !strings.Contains(buf.String(), `"outline": []`) {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}
}

func TestEmpty_EncodesEmptyOutline(t *testing.T) {
	data, err := json.Marshal(Empty())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"title":"","outline":[]}` {
		t.Errorf("unexpected %s", data)
	}

	data, err = json.Marshal(Result{Title: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"outline":[]`) {
		t.Errorf("expected empty array for nil outline, got %s", data)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	in := Result{Title: "Doc  ", Outline: []Heading{{Level: H3, Text: "1.1.1 Deep ", Page: 4}}}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Title != in.Title || len(out.Outline) != 1 || out.Outline[0] != in.Outline[0] {
		t.Errorf("round trip mismatch: %+v", out)
	}

	if _, err := Decode(strings.NewReader(`{"title":"","outline":[{"level":"H4","text":"x","page":0}]}`)); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevel_MarshalRejectsNone(t *testing.T) {
	if _, err := json.Marshal(Heading{Level: LevelNone, Text: "x"}); err == nil {
		t.Error("expected error marshaling LevelNone")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty", `{"title":"","outline":[]}`, false},
		{"heading", `{"title":"T  ","outline":[{"level":"H2","text":"A ","page":0}]}`, false},
		{"missing outline", `{"title":""}`, true},
		{"bad level", `{"title":"","outline":[{"level":"H5","text":"A","page":1}]}`, true},
		{"negative page", `{"title":"","outline":[{"level":"H1","text":"A","page":-1}]}`, true},
		{"extra field", `{"title":"","outline":[],"pages":3}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateResult_ClassifierOutput(t *testing.T) {
	res := classify(
		pg(1, ln("Annual Report 2024", 24, false)),
		pg(2, ln("1. Introduction", 16, false), ln("1.1 Background", 14, false), ln("1.1.1 Scope", 9, false)),
	)
	if err := ValidateResult(res); err != nil {
		t.Errorf("classifier output failed validation: %v", err)
	}
}
