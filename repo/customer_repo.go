package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/moviedb/db"
	"github.com/Skryldev/moviedb/models"
)

// CustomerRepository defines the persistence operations on customers.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	Insert(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, id int64) error
}

type customerRepo struct {
	q db.Querier
}

// NewCustomerRepo returns a CustomerRepository backed by q.
func NewCustomerRepo(q db.Querier) CustomerRepository {
	return &customerRepo{q: q}
}

const (
	sqlInsertCustomer = `
		INSERT INTO customers (first_name, last_name, cc_id, address, email, password)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqlGetCustomerByID = `
		SELECT id, first_name, last_name, cc_id, address, email, password
		FROM   customers
		WHERE  id = ?`

	sqlDeleteCustomer = `
		DELETE FROM customers WHERE id = ?`
)

// GetByID loads a customer by primary key.
// Returns db.ErrNotFound when no record matches.
func (r *customerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := r.q.QueryRow(ctx, sqlGetCustomerByID, id).
		Scan(&c.ID, &c.FirstName, &c.LastName, &c.CreditCardID, &c.Address, &c.Email, &c.Password)
	if err != nil {
		return nil, fmt.Errorf("repo/customer: %w", err)
	}
	return &c, nil
}

// Insert writes an unsaved customer and assigns the generated id to c.ID.
// The credit card id is not checked up front; a store that enforces the
// creditcards foreign key rejects unknown cards with
// db.ErrForeignKeyViolation.
func (r *customerRepo) Insert(ctx context.Context, c *models.Customer) error {
	if c.Persisted() {
		return ErrAlreadyPersisted
	}
	id, err := insertOne(ctx, r.q, sqlInsertCustomer,
		c.FirstName, c.LastName, c.CreditCardID, c.Address, c.Email, c.Password)
	if err != nil {
		return fmt.Errorf("repo/customer: insert: %w", err)
	}
	c.ID = id
	return nil
}

// Delete removes a customer by id.
// Returns db.ErrNotFound if no row was deleted.
func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.Exec(ctx, sqlDeleteCustomer, id)
	if err != nil {
		return fmt.Errorf("repo/customer: delete: %w", err)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

var _ CustomerRepository = (*customerRepo)(nil)
