package source

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jamesainslie/go-corpus/internal/archivetest"
	"github.com/jamesainslie/go-corpus/subtitles"
)

type result struct {
	docs []Document
	errs []error
}

func drain(t *testing.T, r Reader, path string) result {
	t.Helper()
	var res result
	for doc, err := range r.Documents(context.Background(), path) {
		if err != nil {
			res.errs = append(res.errs, err)
			continue
		}
		res.docs = append(res.docs, doc)
	}
	return res
}

func mustNew(t *testing.T, kind Kind, collection string) Reader {
	t.Helper()
	r, err := New(kind, collection)
	if err != nil {
		t.Fatalf("New(%s) error: %v", kind, err)
	}
	return r
}

func TestNew(t *testing.T) {
	for _, kind := range []Kind{KindSubtitles, KindNews} {
		if _, err := New(kind, ""); err != nil {
			t.Errorf("New(%s) error: %v", kind, err)
		}
	}
	if _, err := New(KindRNC, ""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(rnc without collection) error = %v, want ErrUnknownKind", err)
	}
	if _, err := New("social", ""); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(social) error = %v, want ErrUnknownKind", err)
	}
}

func TestNewsReader(t *testing.T) {
	path := archivetest.WriteZip(t, filepath.Join(t.TempDir(), "news.zip"),
		archivetest.File{Name: "a/texts/"},
		archivetest.File{Name: "a/texts/x.csv", Body: "id,title"},
		archivetest.File{Name: "a/texts/x.txt", Body: "Новость дня."},
		archivetest.File{Name: "a/texts/x.pdf", Body: "%PDF"},
		archivetest.File{Name: "a/texts/README", Body: "no extension"},
		archivetest.File{Name: "a/meta/y.txt", Body: "outside texts"},
		archivetest.File{Name: "b/texts/z.txt", Body: "Вторая."},
	)

	res := drain(t, mustNew(t, KindNews, ""), path)

	want := []Document{
		{ID: "a/texts/x.txt", Group: "a/texts/x.txt", Text: "Новость дня."},
		{ID: "b/texts/z.txt", Group: "b/texts/z.txt", Text: "Вторая."},
	}
	if !reflect.DeepEqual(res.docs, want) {
		t.Errorf("docs = %+v, want %+v", res.docs, want)
	}

	if len(res.errs) != 1 {
		t.Fatalf("errs = %v, want exactly one", res.errs)
	}
	var entryErr *EntryError
	if !errors.As(res.errs[0], &entryErr) || entryErr.Entry != "a/texts/x.pdf" {
		t.Errorf("err = %v, want EntryError for a/texts/x.pdf", res.errs[0])
	}
	if !errors.Is(res.errs[0], ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", res.errs[0])
	}
}

func TestNewsReader_WrongContainer(t *testing.T) {
	path := archivetest.WriteTarGz(t, filepath.Join(t.TempDir(), "news.tar.gz"),
		archivetest.File{Name: "a/texts/x.txt", Body: "x"},
	)
	res := drain(t, mustNew(t, KindNews, ""), path)
	if len(res.docs) != 0 || len(res.errs) != 1 {
		t.Fatalf("got %d docs, %d errs; want 0, 1", len(res.docs), len(res.errs))
	}
	var entryErr *EntryError
	if errors.As(res.errs[0], &entryErr) {
		t.Errorf("container error must not be an entry error: %v", res.errs[0])
	}
	if !errors.Is(res.errs[0], ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", res.errs[0])
	}
}

func TestNewsReader_InvalidUTF8EndsSource(t *testing.T) {
	path := archivetest.WriteZip(t, filepath.Join(t.TempDir(), "news.zip"),
		archivetest.File{Name: "a/texts/1.txt", Body: "\xff\xfe"},
		archivetest.File{Name: "a/texts/2.txt", Body: "ok"},
	)
	res := drain(t, mustNew(t, KindNews, ""), path)
	if len(res.docs) != 0 {
		t.Errorf("docs = %+v, want none after encoding failure", res.docs)
	}
	if len(res.errs) != 1 || !errors.Is(res.errs[0], ErrInvalidEncoding) {
		t.Errorf("errs = %v, want one ErrInvalidEncoding", res.errs)
	}
}

func subtitleLine(text string) string {
	return strings.Join([]string{"1", "00:00:01,000", "00:00:02,000", text}, "\t") + "\n"
}

func TestSubtitleReader(t *testing.T) {
	path := archivetest.WriteTarGz(t, filepath.Join(t.TempDir(), "Subtitles.tar.gz"),
		archivetest.File{Name: "Subtitles/texts/Lost/s01e01.ru.txt", Body: subtitleLine("Привет") + subtitleLine("мир")},
		archivetest.File{Name: "Subtitles/texts/Lost/s01e01.en.txt", Body: subtitleLine("Hello")},
		archivetest.File{Name: "Subtitles/texts/Lost/s01e02.ru.txt", Body: subtitleLine("Снова")},
		archivetest.File{Name: "Subtitles/texts/Bad/e1.ru.txt", Body: "не субтитры\n"},
		archivetest.File{Name: "Subtitles/texts/flat.ru.txt", Body: subtitleLine("Без серии")},
		archivetest.File{Name: "Subtitles/meta/Lost.ru.txt", Body: "ignored"},
	)

	res := drain(t, mustNew(t, KindSubtitles, ""), path)

	want := []Document{
		{ID: "Subtitles/texts/Lost/s01e01.ru.txt", Group: "Lost", Text: "Привет мир"},
		{ID: "Subtitles/texts/Lost/s01e02.ru.txt", Group: "Lost", Text: "Снова"},
	}
	if !reflect.DeepEqual(res.docs, want) {
		t.Errorf("docs = %+v, want %+v", res.docs, want)
	}
	if len(res.errs) != 2 {
		t.Fatalf("errs = %v, want 2", res.errs)
	}
	if !errors.Is(res.errs[0], subtitles.ErrMalformedLine) {
		t.Errorf("errs[0] = %v, want ErrMalformedLine", res.errs[0])
	}
	if !errors.Is(res.errs[1], ErrMalformedEntry) {
		t.Errorf("errs[1] = %v, want ErrMalformedEntry", res.errs[1])
	}
}

func TestSubtitleReader_ContextCancelled(t *testing.T) {
	path := archivetest.WriteTarGz(t, filepath.Join(t.TempDir(), "Subtitles.tar.gz"),
		archivetest.File{Name: "Subtitles/texts/Lost/e1.ru.txt", Body: subtitleLine("Привет")},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range mustNew(t, KindSubtitles, "").Documents(ctx, path) {
		gotErr = err
	}
	if !errors.Is(gotErr, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", gotErr)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		kind    Kind
		path    string
		wantErr error
	}{
		{KindSubtitles, "Subtitles.tar.gz", nil},
		{KindNews, "news.zip", nil},
		{KindRNC, "ruscorpora.tgz", nil},
		{KindNews, "news.tar.gz", ErrUnsupportedFormat},
		{KindSubtitles, "Subtitles.zip", ErrUnsupportedFormat},
		{"social", "social.zip", ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.path, func(t *testing.T) {
			err := Check(tt.kind, tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Check() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
