package domain

// Address represents a shipping address stored in the commerce backend.
type Address struct {
	ID          string `json:"id,omitempty"`
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
}
