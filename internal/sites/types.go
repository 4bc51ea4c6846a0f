package sites

// Site is one mini app found under the sites directory.
type Site struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Category    string `json:"category"`
}

// Override is an entry of websites-config.json. Empty fields keep the generated value.
type Override struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Listing is the response body of the site list endpoint.
type Listing struct {
	Success  bool   `json:"success"`
	Websites []Site `json:"websites"`
	Count    int    `json:"count"`
}

// NewListing wraps sites for the wire.
func NewListing(sites []Site) Listing {
	if sites == nil {
		sites = []Site{}
	}
	return Listing{Success: true, Websites: sites, Count: len(sites)}
}
