package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/pocket-ledger/internal/common"
	"github.com/Veraticus/pocket-ledger/internal/model"
	"github.com/Veraticus/pocket-ledger/internal/notify"
)

// Defaults for categories created without a color or icon.
const (
	DefaultCategoryColor = "#3498db"
	DefaultCategoryIcon  = "tag"
)

// CategoryDraft is the user-entered content of a new category.
type CategoryDraft struct {
	Name  string
	Color string
	Icon  string
}

// AddCategory creates an expense category.
func (l *Ledger) AddCategory(ctx context.Context, d CategoryDraft) (model.Category, error) {
	return l.addCategory(ctx, model.TypeExpense, d)
}

// AddIncomeCategory creates an income category.
func (l *Ledger) AddIncomeCategory(ctx context.Context, d CategoryDraft) (model.Category, error) {
	return l.addCategory(ctx, model.TypeIncome, d)
}

func (l *Ledger) addCategory(ctx context.Context, typ model.TransactionType, d CategoryDraft) (model.Category, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		err := common.NewUserError("Please enter a category name", fmt.Errorf("%w: missing name", ErrValidation))
		l.notifier.Notify(common.UserMessage(err), notify.LevelWarning, 0)
		return model.Category{}, err
	}

	cat := model.Category{ID: l.newID(), Name: name, Color: d.Color, Icon: d.Icon}
	if cat.Color == "" {
		cat.Color = DefaultCategoryColor
	}
	if cat.Icon == "" {
		cat.Icon = DefaultCategoryIcon
	}

	l.mu.Lock()
	if typ == model.TypeIncome {
		l.state.IncomeCategories = append(l.state.IncomeCategories, cat)
	} else {
		l.state.Categories = append(l.state.Categories, cat)
	}
	l.mu.Unlock()

	return cat, l.commit(ctx, fmt.Sprintf("Category %q added", cat.Name), notify.LevelSuccess)
}

// DeleteCategory removes an expense category after confirmation. It is
// refused while any expense references the category, checked again once
// the confirmation returns.
func (l *Ledger) DeleteCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	_, exists := model.FindCategory(l.state.Categories, id)
	inUse := l.categoryInUseLocked(id)
	l.mu.Unlock()

	if !exists {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if inUse {
		return l.categoryInUse(id)
	}

	if err := l.confirmAction(ctx, "Are you sure you want to delete this category?"); err != nil {
		return err
	}

	l.mu.Lock()
	if l.categoryInUseLocked(id) {
		l.mu.Unlock()
		return l.categoryInUse(id)
	}
	l.state.Categories = slices.DeleteFunc(l.state.Categories, func(c model.Category) bool { return c.ID == id })
	l.mu.Unlock()

	return l.commit(ctx, "Category deleted", notify.LevelInfo)
}

// categoryInUseLocked reports whether an expense references id. The caller
// must hold l.mu.
func (l *Ledger) categoryInUseLocked(id string) bool {
	return slices.ContainsFunc(l.state.Expenses, func(t model.Transaction) bool {
		return t.CategoryID == id
	})
}

func (l *Ledger) categoryInUse(id string) error {
	err := common.NewUserError("This category is used by expenses. Delete or change those expenses first.",
		fmt.Errorf("%w: %s", ErrCategoryInUse, id))
	l.notifier.Notify(common.UserMessage(err), notify.LevelWarning, 0)
	return err
}

// DeleteIncomeCategory removes an income category after confirmation.
// Incomes referencing it are kept and display the unknown-category label.
func (l *Ledger) DeleteIncomeCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	_, exists := model.FindCategory(l.state.IncomeCategories, id)
	l.mu.Unlock()

	if !exists {
		return fmt.Errorf("income category %s: %w", id, common.ErrNotFound)
	}

	if err := l.confirmAction(ctx, "Are you sure you want to delete this income category?"); err != nil {
		return err
	}

	l.mu.Lock()
	l.state.IncomeCategories = slices.DeleteFunc(l.state.IncomeCategories, func(c model.Category) bool { return c.ID == id })
	l.mu.Unlock()

	return l.commit(ctx, "Income category deleted", notify.LevelInfo)
}

// ResolveCategory finds a category of the given type by id or, failing
// that, by case-insensitive name.
func (l *Ledger) ResolveCategory(typ model.TransactionType, idOrName string) (model.Category, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	categories := l.state.CategoriesFor(typ)
	if c, ok := model.FindCategory(categories, idOrName); ok {
		return c, true
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(idOrName)) {
			return c, true
		}
	}
	return model.Category{}, false
}
