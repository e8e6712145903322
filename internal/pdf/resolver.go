// Package pdf resolves paper landing pages to direct PDF download links.
package pdf

import (
	"regexp"
	"strings"

	"github.com/helixir/paper-search-service/internal/domain"
)

// ArXivPDFBase is the prefix of arXiv PDF links.
const ArXivPDFBase = "https://arxiv.org/pdf/"

// arxivAbsRegex matches an arXiv abstract page and captures the identifier,
// e.g. "https://arxiv.org/abs/2301.12345v2" or "http://arxiv.org/abs/hep-th/9901001".
var arxivAbsRegex = regexp.MustCompile(`arxiv\.org/abs/([^?#]+?)/?(?:[?#].*)?$`)

// unsafeFilenameChars matches characters that are replaced in generated filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Download is a resolved download link.
type Download struct {
	URL      string `json:"download_url"`
	Filename string `json:"filename"`
	ArXiv    bool   `json:"-"`
}

// ResolveDownload maps a paper's landing page to a download link. arXiv
// abstract pages become their PDF link; any other URL is returned unchanged
// with a filename derived from paperID. It performs no network I/O.
func ResolveDownload(paperID, paperURL string) (Download, error) {
	paperID = strings.TrimSpace(paperID)
	paperURL = strings.TrimSpace(paperURL)
	if paperID == "" {
		return Download{}, domain.NewValidationError("paper_id", "paper_id is required")
	}
	if paperURL == "" {
		return Download{}, domain.NewValidationError("paper_url", "paper_url is required")
	}

	if id := ArXivID(paperURL); id != "" {
		return Download{
			URL:      ArXivPDFURL(id),
			Filename: "arxiv_" + sanitizeFilename(id) + ".pdf",
			ArXiv:    true,
		}, nil
	}

	return Download{
		URL:      paperURL,
		Filename: "paper_" + sanitizeFilename(paperID) + ".pdf",
	}, nil
}

// ArXivID extracts the identifier from an arXiv abstract URL, or returns ""
// when the URL is not one.
func ArXivID(paperURL string) string {
	m := arxivAbsRegex.FindStringSubmatch(paperURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ArXivPDFURL returns the PDF link for an arXiv identifier.
func ArXivPDFURL(id string) string {
	return ArXivPDFBase + id + ".pdf"
}

func sanitizeFilename(s string) string {
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "download"
	}
	return s
}
