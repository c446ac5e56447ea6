// Package profile defines the business profile data model and the merge
// engine that reconciles freshly extracted data against a stored record.
package profile

// Location is the physical/service location of a business.
type Location struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country,omitempty"`
	ServiceArea string `json:"service_area,omitempty"` // e.g. "within 30 miles of Austin" — not a street address
}

// Contact holds the business contact channels.
type Contact struct {
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Website    string `json:"website,omitempty"`
	BookingURL string `json:"booking_url,omitempty"`
}

// Service is one offered service, product, or asset. Keyed by Name.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Quantity    string `json:"quantity,omitempty"` // e.g. fleet size, seats, units
}

// Credential is a license, certification, or award. Keyed by Name.
type Credential struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// SocialLink is a social media presence. Keyed by Platform.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Attribute is a free-form business fact. Keyed by Label.
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StoredProfile is the authoritative persisted business profile.
// The pipeline reads it once pre-merge and writes it once post-merge.
type StoredProfile struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	BusinessName   string `json:"business_name"`
	Category       string `json:"category"`
	Description    string `json:"description,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`

	Location Location `json:"location"`
	Contact  Contact  `json:"contact"`

	Services         []Service    `json:"services,omitempty"`
	Credentials      []Credential `json:"credentials,omitempty"`
	SocialLinks      []SocialLink `json:"social_links,omitempty"`
	CustomAttributes []Attribute  `json:"custom_attributes,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Method records which acquisition strategy produced an extraction.
type Method string

const (
	MethodDirect      Method = "direct"
	MethodReaderProxy Method = "reader_proxy"
	MethodCrawl       Method = "crawl"
	MethodFailed      Method = "failed"
)

// ExtractedProfile is the transient, schema-validated output of the
// structured extractor. It is never persisted directly — it always
// passes through Merge first.
type ExtractedProfile struct {
	BusinessName   string `json:"business_name"`
	Category       string `json:"category"`
	Description    string `json:"description,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`

	Location Location `json:"location"`
	Contact  Contact  `json:"contact"`

	Services         []Service    `json:"services,omitempty"`
	Credentials      []Credential `json:"credentials,omitempty"`
	SocialLinks      []SocialLink `json:"social_links,omitempty"`
	CustomAttributes []Attribute  `json:"custom_attributes,omitempty"`

	Confidence       float64 `json:"confidence"`
	ExtractionMethod Method  `json:"extraction_method"`

	// Set only on degraded extractions (ExtractionMethod == MethodFailed).
	Diagnostic        string `json:"diagnostic,omitempty"`
	RawContentPreview string `json:"raw_content_preview,omitempty"`
}

// ToStored converts an extraction into the StoredProfile shape used as
// merge input. ID/OwnerID/timestamps are owned by the store.
func (e *ExtractedProfile) ToStored() *StoredProfile {
	return &StoredProfile{
		BusinessName:     e.BusinessName,
		Category:         e.Category,
		Description:      e.Description,
		TargetAudience:   e.TargetAudience,
		Location:         e.Location,
		Contact:          e.Contact,
		Services:         e.Services,
		Credentials:      e.Credentials,
		SocialLinks:      e.SocialLinks,
		CustomAttributes: e.CustomAttributes,
	}
}
