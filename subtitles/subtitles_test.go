package subtitles

import (
	"errors"
	"reflect"
	"testing"
)

func TestCleanLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dialogue", "1\t00:00:01,000\t00:00:02,000\tПривет", "Привет"},
		{"empty", "", ""},
		{"bom only", "\ufeff", ""},
		{"bom prefix", "\ufeff1\t00:00:01,000\t00:00:02,000\tПривет", "Привет"},
		{"watermark", "1\t00:00:01,000\t00:00:02,000\twww.example.com subtitles", ""},
		{"no dialogue field", "1\t00:00:01,000\t00:00:02,000", ""},
		{"joins dialogue fields", "1\t0\t0\t Как \t\tдела? ", "Как дела?"},
		{"markup", "1\t0\t0\t<i>Привет</i>, <b>мир</b>", "Привет, мир"},
		{"timestamp residue", "1\t0\t0\tТекст 12 00:00:03,000 --> 00:00:04,500", "Текст"},
		{"collapses whitespace", "1\t0\t0\tмного    пробелов", "много пробелов"},
		{"dash placeholder", "1\t0\t0\t-", ""},
		{"period placeholder", "1\t0\t0\t.", ""},
		{"not translated placeholder", "1\t0\t0\t- Не переведено -", ""},
		{"in progress placeholder", "1\t0\t0\t\"идёт перевод\"", ""},
		{"credit header", "1\t0\t0\tПеревод: Иван Петров", ""},
		{"translators", "1\t0\t0\tПереводчики: Иван, Пётр", ""},
		{"voiced by", "1\t0\t0\tСерию перевели и озвучили друзья", ""},
		{"inline latin nickname", "1\t0\t0\tРусский перевод - notabenoid", ""},
		{"coordinator", "1\t0\t0\tКоординатор перевода: Маша", ""},
		{"translation mentioned in dialogue", "1\t0\t0\tЭто плохой перевод книги", "Это плохой перевод книги"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanLine(tt.input)
			if err != nil {
				t.Fatalf("CleanLine(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("CleanLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanLine_Malformed(t *testing.T) {
	for _, input := range []string{"просто текст", "1\t00:00:01,000"} {
		_, err := CleanLine(input)
		if !errors.Is(err, ErrMalformedLine) {
			t.Errorf("CleanLine(%q) error = %v, want ErrMalformedLine", input, err)
		}
	}
}

func TestReflow(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "lowercase continuation",
			input: []string{"Привет", "мир"},
			want:  []string{"Привет мир"},
		},
		{
			name:  "sentence end blocks merge",
			input: []string{"Привет.", "мир"},
			want:  []string{"Привет.", "мир"},
		},
		{
			name:  "uppercase starts new line",
			input: []string{"Привет", "Мир"},
			want:  []string{"Привет", "Мир"},
		},
		{
			name:  "ellipsis bridge",
			input: []string{"Я думаю...", "...что да"},
			want:  []string{"Я думаю что да"},
		},
		{
			name:  "ellipsis kept without continuation",
			input: []string{"Я думаю...", "Нет"},
			want:  []string{"Я думаю...", "Нет"},
		},
		{
			name:  "first line never merges",
			input: []string{"мир", "Привет"},
			want:  []string{"мир", "Привет"},
		},
		{
			name:  "continuation after dropped line",
			input: []string{"", "мир"},
			want:  []string{"мир"},
		},
		{
			name:  "empty lines kept",
			input: []string{"Один.", "", "Два."},
			want:  []string{"Один.", "", "Два."},
		},
		{
			name:  "digits do not merge",
			input: []string{"Глава", "1"},
			want:  []string{"Глава", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflow(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reflow(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	doc := "\ufeff1\t00:00:01,000\t00:00:02,000\tПривет\r\n" +
		"2\t00:00:02,000\t00:00:03,000\tмир\r\n" +
		"3\t00:00:03,000\t00:00:04,000\twww.subs.example\r\n" +
		"4\t00:00:04,000\t00:00:05,000\tКак дела?\r\n"

	got, err := Clean(doc)
	if err != nil {
		t.Fatalf("Clean() error: %v", err)
	}
	want := "Привет мир\n\nКак дела?"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestClean_MalformedLineAbortsDocument(t *testing.T) {
	doc := "1\t00:00:01,000\t00:00:02,000\tПривет\nне субтитры\n"
	_, err := Clean(doc)
	if !errors.Is(err, ErrMalformedLine) {
		t.Fatalf("Clean() error = %v, want ErrMalformedLine", err)
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a\r\nb\rc\nd\u2028e\n")
	want := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitLines() = %q, want %q", got, want)
	}
	if got := splitLines(""); len(got) != 0 {
		t.Errorf("splitLines(\"\") = %q, want empty", got)
	}
}
