// Package pubmed provides a client for the NCBI E-utilities PubMed API.
//
// A search is two calls: esearch resolves the query to PMIDs and esummary
// returns document summaries for those PMIDs. Both use the JSON retmode.
//
// API Documentation: https://www.ncbi.nlm.nih.gov/books/NBK25500/
package pubmed

import "encoding/json"

// ESearchResponse is the JSON envelope returned by esearch.fcgi.
type ESearchResponse struct {
	Result ESearchResult `json:"esearchresult"`
}

// ESearchResult contains the matching PMIDs.
type ESearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// ESummaryResponse is the JSON envelope returned by esummary.fcgi.
// The result object maps "uids" to the ordered PMID list and each PMID to
// its DocSum, so it is decoded in two steps.
type ESummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// DocSum is one esummary document summary.
type DocSum struct {
	UID             string   `json:"uid"`
	Title           string   `json:"title"`
	Authors         []Author `json:"authors"`
	PubDate         string   `json:"pubdate"`     // "2023 Mar 15"
	SortPubDate     string   `json:"sortpubdate"` // "2023/03/15 00:00"
	Source          string   `json:"source"`
	FullJournalName string   `json:"fulljournalname"`
	PubType         []string `json:"pubtype"`
	Error           string   `json:"error"`
}

// Author is an esummary author entry.
type Author struct {
	Name     string `json:"name"`
	AuthType string `json:"authtype"`
}
