package tasks

// CreateTaskRequest is the body of POST /create.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=3" example:"Buy milk"`
	Description string `json:"description" validate:"omitempty,min=10" example:"Two litres, semi-skimmed"`
}

// UpdateTaskRequest is the body of both update routes. Every field is optional, but at
// least one must be present.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3" example:"Buy oat milk"`
	Description *string `json:"description" validate:"omitempty,min=10" example:"Two litres, barista edition"`
	Completed   *bool   `json:"completed" example:"true"`
}

func (r UpdateTaskRequest) patch() Patch {
	return Patch{Title: r.Title, Description: r.Description, Completed: r.Completed}
}

// Page is a parsed `page`/`limit` pair.
type Page struct {
	Page  int
	Limit int
}

// Skip is the number of records before this page.
func (p Page) Skip() int {
	return (p.Page - 1) * p.Limit
}
