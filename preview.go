package bookpub

// previewSampleSize bounds the formatted-element sample sent to UIs.
const previewSampleSize = 20

// PreviewElement is one sampled element in a preview payload.
type PreviewElement struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Preview is the statistics payload a UI renders before the caller
// commits to a full export.
type Preview struct {
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	Language        string           `json:"language"`
	ElementCount    int              `json:"element_count"`
	ChapterCount    int              `json:"chapter_count"`
	WordCount       int              `json:"word_count"`
	ExpressionCount int              `json:"expression_count"`
	IndexedTerms    int              `json:"indexed_terms"`
	Sample          []PreviewElement `json:"sample"`
}

// BuildPreview summarizes a formatted model. Total: a nil model yields
// an empty preview.
func BuildPreview(model *DocumentModel) Preview {
	if model == nil {
		return Preview{}
	}
	p := Preview{
		Title:        model.Title,
		Author:       model.Author,
		Language:     model.Language,
		ElementCount: model.ElementCount(),
		ChapterCount: model.ChapterCount(),
		WordCount:    model.WordCount(),
	}
	if model.Index != nil {
		p.IndexedTerms = model.Index.Len()
	}
	model.Walk(func(el *DocumentElement) bool {
		if el.Kind == KindExpression {
			p.ExpressionCount++
		}
		if len(p.Sample) < previewSampleSize {
			p.Sample = append(p.Sample, PreviewElement{
				ID:      el.ID,
				Kind:    el.Kind.String(),
				Content: el.Content,
			})
		}
		return true
	})
	return p
}
