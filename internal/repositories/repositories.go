package repositories

import "gorm.io/gorm"

// Repositories bundles every repository bound to the same connection or
// transaction.
type Repositories struct {
	Users    UserRepository
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
}

// NewGORMRepositories binds all GORM repositories to db.
func NewGORMRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewGORMUserRepository(db),
		Products: NewGORMProductRepository(db),
		Carts:    NewGORMCartRepository(db),
		Orders:   NewGORMOrderRepository(db),
	}
}

// Transactor runs work atomically. fn receives repositories bound to the
// transaction; a returned error rolls everything back.
type Transactor interface {
	WithinTransaction(fn func(repos *Repositories) error) error
}

// GORMTransactor is a Transactor over a *gorm.DB.
type GORMTransactor struct {
	db *gorm.DB
}

// NewGORMTransactor creates a new GORMTransactor.
func NewGORMTransactor(db *gorm.DB) *GORMTransactor {
	return &GORMTransactor{db: db}
}

// WithinTransaction runs fn in a transaction, committing on nil error.
func (t *GORMTransactor) WithinTransaction(fn func(repos *Repositories) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepositories(tx))
	})
}
