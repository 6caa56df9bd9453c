package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"energyrelay/internal/models"
	"energyrelay/internal/uploads"
)

type fakeExtractor struct {
	calls  int
	gotDoc string
	result *models.ExtractionResult
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, doc io.Reader, _ string) (*models.ExtractionResult, error) {
	f.calls++
	data, _ := io.ReadAll(doc)
	f.gotDoc = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeAnalyzer struct {
	calls  int
	inputs []string
	reply  string
	err    error
	// onCall runs before the reply is produced.
	onCall func()
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (*models.AnalysisResult, error) {
	f.calls++
	f.inputs = append(f.inputs, text)
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{Text: f.reply}, nil
}

func newUpload(t *testing.T) (*uploads.File, *int32) {
	t.Helper()
	var removes int32
	store, err := uploads.NewStore(t.TempDir(), nil, uploads.WithRemoveFunc(func(path string) error {
		atomic.AddInt32(&removes, 1)
		return os.Remove(path)
	}))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	file, err := store.Save("bill.pdf", strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return file, &removes
}

func assertReleased(t *testing.T, file *uploads.File, removes *int32) {
	t.Helper()
	if got := atomic.LoadInt32(removes); got != 1 {
		t.Fatalf("expected upload deleted exactly once, got %d", got)
	}
	if _, err := os.Stat(file.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("upload still on disk: %v", err)
	}
}

func TestExtractAndAnalyzeSuccess(t *testing.T) {
	file, removes := newUpload(t)
	ext := &fakeExtractor{result: &models.ExtractionResult{Segments: []string{"a", "b"}, Text: "a\nb"}}
	an := &fakeAnalyzer{reply: "report"}
	an.onCall = func() {
		if _, err := os.Stat(file.Path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("upload must be released before analysis starts")
		}
	}

	report, err := New(ext, an, nil).ExtractAndAnalyze(context.Background(), file)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if ext.gotDoc != "%PDF" {
		t.Fatalf("extractor got %q", ext.gotDoc)
	}
	if report.Extraction.Text != "a\nb" || report.Analysis.Text != "report" {
		t.Fatalf("unexpected report %+v %+v", report.Extraction, report.Analysis)
	}
	if an.calls != 1 || an.inputs[0] != "a\nb" {
		t.Fatalf("expected one analysis of extracted text, got %v", an.inputs)
	}
	assertReleased(t, file, removes)
	// A later release from the caller must not delete again.
	_ = file.Release()
	assertReleased(t, file, removes)
}

func TestExtractAndAnalyzePlaceholderFlowsToAnalysis(t *testing.T) {
	file, removes := newUpload(t)
	ext := &fakeExtractor{result: &models.ExtractionResult{Text: models.PlaceholderText}}
	an := &fakeAnalyzer{reply: "report"}

	report, err := New(ext, an, nil).ExtractAndAnalyze(context.Background(), file)
	if err != nil {
		t.Fatalf("placeholder must not be an error: %v", err)
	}
	if report.Extraction.Text != models.PlaceholderText {
		t.Fatalf("unexpected extraction %q", report.Extraction.Text)
	}
	if len(an.inputs) != 1 || an.inputs[0] != models.PlaceholderText {
		t.Fatalf("analysis input %v", an.inputs)
	}
	assertReleased(t, file, removes)
}

func TestExtractAndAnalyzeOCRFailureReleasesAndSkipsAnalysis(t *testing.T) {
	cases := map[string]error{
		"processing": &models.StageError{Kind: models.KindOCRProcessing, Message: "bad pdf"},
		"transport":  models.NewStageError(models.KindTransport, "", errors.New("connection refused")),
	}
	for name, stageErr := range cases {
		t.Run(name, func(t *testing.T) {
			file, removes := newUpload(t)
			an := &fakeAnalyzer{reply: "report"}
			_, err := New(&fakeExtractor{err: stageErr}, an, nil).ExtractAndAnalyze(context.Background(), file)
			if !errors.Is(err, stageErr) {
				t.Fatalf("expected stage error, got %v", err)
			}
			if an.calls != 0 {
				t.Fatalf("analysis must not run after OCR failure")
			}
			assertReleased(t, file, removes)
		})
	}
}

func TestExtractAndAnalyzeAnalysisFailureDropsExtraction(t *testing.T) {
	file, removes := newUpload(t)
	ext := &fakeExtractor{result: &models.ExtractionResult{Text: "text"}}
	an := &fakeAnalyzer{err: models.NewStageError(models.KindAnalysis, "", errors.New("connection refused"))}

	report, err := New(ext, an, nil).ExtractAndAnalyze(context.Background(), file)
	if report != nil {
		t.Fatalf("no partial report on failure")
	}
	if kind, _ := models.KindOf(err); kind != models.KindAnalysis {
		t.Fatalf("expected analysis error, got %v", err)
	}
	assertReleased(t, file, removes)
}

func TestExtractAndAnalyzeNilResultFailsClosed(t *testing.T) {
	file, removes := newUpload(t)
	_, err := New(&fakeExtractor{}, &fakeAnalyzer{}, nil).ExtractAndAnalyze(context.Background(), file)
	if kind, _ := models.KindOf(err); kind != models.KindProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
	assertReleased(t, file, removes)
}

func TestExtractAndAnalyzeWithoutFile(t *testing.T) {
	ext := &fakeExtractor{}
	an := &fakeAnalyzer{}
	_, err := New(ext, an, nil).ExtractAndAnalyze(context.Background(), nil)
	if kind, _ := models.KindOf(err); kind != models.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ext.calls != 0 || an.calls != 0 {
		t.Fatalf("no stage may run without a file")
	}
}

func TestAnalyzeText(t *testing.T) {
	an := &fakeAnalyzer{reply: "report"}
	p := New(&fakeExtractor{}, an, nil)

	report, err := p.AnalyzeText(context.Background(), "bill")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if report.Extraction != nil {
		t.Fatalf("text path has no extraction")
	}
	if report.Analysis.Text != "report" {
		t.Fatalf("unexpected analysis %q", report.Analysis.Text)
	}

	if _, err := p.AnalyzeText(context.Background(), ""); err == nil {
		t.Fatalf("expected validation error")
	} else if kind, _ := models.KindOf(err); kind != models.KindValidation {
		t.Fatalf("unexpected kind %s", kind)
	}
	if an.calls != 1 {
		t.Fatalf("expected one analysis call, got %d", an.calls)
	}
}
