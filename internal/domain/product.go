package domain

// Product is the document-store model for catalog entries. Deleting a
// product only flips IsActive; documents are never removed.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Category    string
	IsActive    bool
	CreatedBy   int64
}
