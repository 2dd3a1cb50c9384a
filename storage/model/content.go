package model

// FAQEntry is a single question/answer pair shown on the portal page.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// About is the free-form about block shown on the portal page.
type About struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Content groups the FAQ list and the about block.
type Content struct {
	FAQs  []FAQEntry `json:"faqs"`
	About About      `json:"about"`
}

// ContentStore abstracts persistence of the portal's FAQ/About content.
type ContentStore interface {
	// Get returns the stored content. When none has been stored yet the
	// implementation seeds and returns DefaultContent.
	Get() (*Content, error)
	// Set replaces the stored content.
	Set(content Content) error
}

// DefaultContent is written on first run when no content file exists yet.
func DefaultContent() Content {
	return Content{
		FAQs: []FAQEntry{
			{
				Question: "What is Gyaan Apps?",
				Answer: "Gyaan Apps is a comprehensive suite of AI-powered applications designed to " +
					"enhance productivity and streamline various tasks.",
			},
		},
		About: About{
			Title:   "About Gyaan",
			Content: "Gyaan is an innovative AI-powered platform developed by Team GYAAN.",
		},
	}
}
