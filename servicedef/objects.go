package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

// Specification is the "data" member of a catalog object. The catalog stores free-form
// data; only the members used by the phone checks are mapped.
type Specification struct {
	Color    string `json:"color,omitempty"`
	Capacity string `json:"capacity,omitempty"`
}

// Phone is one entry of the /objects catalog.
type Phone struct {
	ID   int            `json:"id" validate:"required"`
	Name string         `json:"name" validate:"required"`
	Data *Specification `json:"data"`
}

// CatalogObject is an object as stored by the catalog, with its data left generic.
type CatalogObject struct {
	ID        string        `json:"id,omitempty"`
	Name      string        `json:"name" validate:"required"`
	Data      ldvalue.Value `json:"data"`
	CreatedAt string        `json:"createdAt,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

// ErrorResponse is the body the catalog returns for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}
