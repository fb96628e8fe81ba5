package work

// RawWork is one work as returned by the item source, before normalization.
// Field names follow the OpenAlex works schema. Nullable fields are pointers
// so that "absent" can be told apart from "empty".
type RawWork struct {
	ID              string          `json:"id"`
	Title           *string         `json:"title"`
	PublicationYear *int            `json:"publication_year"`
	ReferencedWorks []string        `json:"referenced_works"`
	PrimaryLocation *RawLocation    `json:"primary_location"`
	Authorships     []RawAuthorship `json:"authorships"`
}

// RawLocation is where a work was published.
type RawLocation struct {
	LandingPageURL *string    `json:"landing_page_url"`
	Source         *RawSource `json:"source"`
}

// RawSource is the journal or repository hosting a work.
type RawSource struct {
	DisplayName *string `json:"display_name"`
}

// RawAuthorship links one author to a work.
type RawAuthorship struct {
	Author       RawAuthor        `json:"author"`
	Institutions []RawInstitution `json:"institutions"`
}

// RawAuthor is an author entry inside an authorship.
type RawAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// RawInstitution is an affiliation inside an authorship.
type RawInstitution struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
}

// FirstCursor is the cursor that requests the first page.
const FirstCursor = "*"

// Page is one page of raw works. An empty NextCursor ends pagination.
// Cached marks pages served from a local cache rather than the network.
type Page struct {
	Works      []RawWork `json:"results"`
	NextCursor string    `json:"next_cursor,omitempty"`
	Cached     bool      `json:"-"`
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
