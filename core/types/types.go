// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// Customer is the billed party. IDs are caller supplied and not checked
// for uniqueness.
type Customer struct {
	// ID is the customer identifier
	ID int `json:"customer_id" yaml:"customer_id"`

	// Name is the display name, free text
	Name string `json:"customer_name" yaml:"customer_name"`
}

// NewCustomer creates a customer value
func NewCustomer(id int, name string) Customer {
	return Customer{ID: id, Name: name}
}
