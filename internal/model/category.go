package model

// UnknownCategoryName is shown wherever a transaction references a category that no longer exists.
const UnknownCategoryName = "Unknown category"

// Category is a named, colored grouping. Expense and income categories share the shape
// but live in separate collections.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// FindCategory returns the category with the given id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultExpenseCategories returns the categories seeded into an empty store.
func DefaultExpenseCategories() []Category {
	return []Category{
		{ID: "1", Name: "Food", Color: "#e74c3c", Icon: "utensils"},
		{ID: "2", Name: "Transport", Color: "#3498db", Icon: "car"},
		{ID: "3", Name: "Shopping", Color: "#9b59b6", Icon: "shopping-cart"},
		{ID: "4", Name: "Leisure", Color: "#f39c12", Icon: "gamepad"},
		{ID: "5", Name: "Health", Color: "#e67e22", Icon: "heart"},
		{ID: "6", Name: "Housing", Color: "#2ecc71", Icon: "home"},
	}
}

// DefaultIncomeCategories returns the income categories seeded into an empty store.
func DefaultIncomeCategories() []Category {
	return []Category{
		{ID: "inc1", Name: "Salary", Color: "#27ae60", Icon: "briefcase"},
		{ID: "inc2", Name: "Freelance", Color: "#8e44ad", Icon: "laptop-code"},
		{ID: "inc3", Name: "Investment", Color: "#f39c12", Icon: "chart-line"},
		{ID: "inc4", Name: "Gift", Color: "#e91e63", Icon: "gift"},
		{ID: "inc5", Name: "Bonus", Color: "#00bcd4", Icon: "star"},
		{ID: "inc6", Name: "Other", Color: "#607d8b", Icon: "plus"},
	}
}
