package domain

// Order is a reference record in the order catalog.
type Order struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	Carrier           string `json:"carrier,omitempty"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}

// Product is a reference record in the product catalog. Aliases are
// alternative names customers use; matches on an alias normalize to
// ProductName.
type Product struct {
	ProductName string   `json:"product_name"`
	Aliases     []string `json:"aliases,omitempty"`
	Stock       int      `json:"stock"`
	Price       string   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
}

// UserRecord is a reference record in the user catalog. The email address
// doubles as the conversation key; no further identity is modelled.
type UserRecord struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ReferenceData bundles the static catalogs dispatch and extraction run
// against. All lookups are linear scans; the catalogs are loaded once at
// startup and never mutated.
type ReferenceData struct {
	Orders   []Order      `json:"orders"`
	Products []Product    `json:"products"`
	Users    []UserRecord `json:"users"`
}

// FindOrder scans the order catalog for an exact id match.
func (d *ReferenceData) FindOrder(orderID string) (*Order, bool) {
	for i := range d.Orders {
		if d.Orders[i].OrderID == orderID {
			return &d.Orders[i], true
		}
	}
	return nil, false
}

// FindProduct scans the product catalog for an exact official-name match.
func (d *ReferenceData) FindProduct(name string) (*Product, bool) {
	for i := range d.Products {
		if d.Products[i].ProductName == name {
			return &d.Products[i], true
		}
	}
	return nil, false
}

// FindUser scans the user catalog for an exact email match.
func (d *ReferenceData) FindUser(email string) (*UserRecord, bool) {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i], true
		}
	}
	return nil, false
}
