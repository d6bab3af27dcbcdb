package dto

// ProductCreateRequest payload for new products.
type ProductCreateRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,max=100"`
}

// ProductUpdateRequest payload for partial updates. Absent fields are left
// untouched.
type ProductUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
}

// Fields returns the set fields as an update document.
func (r ProductUpdateRequest) Fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	return fields
}

// ProductResponse describes a catalog entry.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsActive    bool    `json:"is_active"`
	CreatedBy   int64   `json:"created_by"`
}
