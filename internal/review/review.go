package review

// Source identifies the site a review was collected from.
type Source string

const (
	SourceG2          Source = "G2"
	SourceCapterra    Source = "Capterra"
	SourceTrustRadius Source = "TrustRadius"
)

// Review is one extracted review record. All fields are free-form strings;
// Date is either a canonical YYYY-MM-DD value or the raw fragment the page
// exposed when parsing failed.
type Review struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Rating      string `json:"rating"`
	Reviewer    string `json:"reviewer"`
	Source      Source `json:"source"`
}

const (
	passKeyMax      = 200
	passKeyBodyMax  = 80
	mergeKeyDescMax = 120
)

// PassKey is the dedup key used within a single extraction pass:
// the first 200 characters of title + "|" + the first 80 characters of body.
func PassKey(title, body string) string {
	return truncateRunes(title+"|"+truncateRunes(body, passKeyBodyMax), passKeyMax)
}

// MergeKey is the dedup key used across collection rounds:
// title + "|" + the first 120 characters of the description.
func MergeKey(title, description string) string {
	return title + "|" + truncateRunes(description, mergeKeyDescMax)
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
