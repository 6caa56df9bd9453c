package models

// PlaceholderText stands in for OCR output that yielded no text. It is valid
// input for the analysis stage.
const PlaceholderText = "No text extracted"

// ExtractionResult is the text recognized in one uploaded document.
type ExtractionResult struct {
	Segments []string `json:"segments"`
	Text     string   `json:"text"`
}

// AnalysisResult is the plain text reply of the LLM provider.
type AnalysisResult struct {
	Text string `json:"text"`
}

// Report is what a successful pipeline run produces. Extraction is nil when
// the caller supplied the text directly.
type Report struct {
	Extraction *ExtractionResult
	Analysis   *AnalysisResult
}
