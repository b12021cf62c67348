package models

// ClientType separates private customers from companies.
type ClientType string

const (
	ClientPrivate ClientType = "particular"
	ClientCompany ClientType = "empresa"
)

// Client is a customer record. Quotes copy it at creation time.
type Client struct {
	ID      string     `json:"id"`
	Name    string     `json:"nombre"`
	Surname string     `json:"apellidos"`
	TaxID   string     `json:"nif"`
	Address string     `json:"direccion"`
	Phone   string     `json:"telefono"`
	Email   string     `json:"email"`
	Type    ClientType `json:"tipoCliente"`
}

// DisplayName returns "Name Surname" without stray spaces.
func (c Client) DisplayName() string {
	switch {
	case c.Surname == "":
		return c.Name
	case c.Name == "":
		return c.Surname
	}
	return c.Name + " " + c.Surname
}
