package models

import "fmt"

// Column limits of the customers table.
const (
	CustomerNameMaxLen       = 50
	CustomerAddressMaxLen    = 200
	CustomerEmailMaxLen      = 50
	CustomerPasswordMaxLen   = 20
	CustomerCreditCardMaxLen = 20
)

// Customer represents a row in the "customers" table.
// The password is stored exactly as entered.
type Customer struct {
	ID           int64
	FirstName    string
	LastName     string
	Address      string
	Email        string
	Password     string
	CreditCardID string
}

// CreateCustomerParams holds the user-supplied values for a new customer.
type CreateCustomerParams struct {
	FirstName    string
	LastName     string
	Address      string
	Email        string
	Password     string
	CreditCardID string
}

// NewCustomer builds an unsaved Customer. Every field is truncated to its
// column limit and all six are required.
func NewCustomer(p CreateCustomerParams) (*Customer, error) {
	c := &Customer{
		FirstName:    Truncate(p.FirstName, CustomerNameMaxLen),
		LastName:     Truncate(p.LastName, CustomerNameMaxLen),
		Address:      Truncate(p.Address, CustomerAddressMaxLen),
		Email:        Truncate(p.Email, CustomerEmailMaxLen),
		Password:     Truncate(p.Password, CustomerPasswordMaxLen),
		CreditCardID: Truncate(p.CreditCardID, CustomerCreditCardMaxLen),
	}
	if anyEmpty(c.FirstName, c.LastName, c.Address, c.Email, c.Password, c.CreditCardID) {
		return nil, fmt.Errorf("%w: all customer fields are required", ErrInvalidArgument)
	}
	return c, nil
}

// Persisted reports whether the store has assigned an ID.
func (c *Customer) Persisted() bool { return c.ID > 0 }

func (c *Customer) String() string {
	return fmt.Sprintf(
		"ID:           %d\n"+
			"First Name:   %s\n"+
			"Last Name:    %s\n"+
			"Address:      %s\n"+
			"Email:        %s\n"+
			"Credit Card#: %s\n",
		c.ID, c.FirstName, c.LastName, c.Address, c.Email, c.CreditCardID,
	)
}
