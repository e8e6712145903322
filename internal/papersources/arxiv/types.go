package arxiv

import "encoding/xml"

// Feed represents the Atom XML response from the arXiv API. Atom elements
// and arXiv extension elements are matched by namespace.
type Feed struct {
	XMLName xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []Entry  `xml:"http://www.w3.org/2005/Atom entry"`
}

// Entry represents a single arXiv paper in the Atom feed.
type Entry struct {
	ID              string     `xml:"http://www.w3.org/2005/Atom id"` // "http://arxiv.org/abs/2301.12345v1"
	Title           string     `xml:"http://www.w3.org/2005/Atom title"`
	Summary         string     `xml:"http://www.w3.org/2005/Atom summary"`   // abstract
	Published       string     `xml:"http://www.w3.org/2005/Atom published"` // "2023-01-15T18:30:00Z"
	Authors         []Author   `xml:"http://www.w3.org/2005/Atom author"`
	Categories      []Category `xml:"http://www.w3.org/2005/Atom category"`
	DOI             string     `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef      string     `xml:"http://arxiv.org/schemas/atom journal_ref"`
	PrimaryCategory Category   `xml:"http://arxiv.org/schemas/atom primary_category"`
}

// Author represents a paper author in the arXiv Atom feed.
type Author struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

// Category represents an arXiv subject category.
type Category struct {
	Term string `xml:"term,attr"`
}
