package model

// Provider identifies a fund house whose pages and factsheets the
// extraction strategies know how to read.
type Provider string

// Known providers.
const (
	ProviderCarmignac  Provider = "carmignac"
	ProviderSycomore   Provider = "sycomore"
	ProviderRothschild Provider = "rothschild"
)

// SourceKind distinguishes how a fund publishes its monthly YTM figure.
type SourceKind string

const (
	// SourceWeb means the figure is embedded in the fund's product page.
	SourceWeb SourceKind = "web"

	// SourcePDF means the figure is inside a monthly factsheet PDF that has
	// to be located and downloaded first.
	SourcePDF SourceKind = "pdf"

	// SourceManual marks values entered by hand, such as seeded reference
	// data. The pipeline never produces these itself.
	SourceManual SourceKind = "manual"
)

// Fund is a configured target-maturity fund tracked month over month.
type Fund struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Isin         string     `json:"isin"`
	Provider     Provider   `json:"provider"`
	MaturityYear int        `json:"maturity_year"`
	URL          string     `json:"url"`
	Source       SourceKind `json:"source_type"`
}
