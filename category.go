package ledger

// DefaultCategories returns the fixed category set seeded into a
// partition on first access: 8 expense and 3 income categories.
// Categories are immutable after creation, so the seed is the whole
// vocabulary a fresh partition starts with.
func DefaultCategories() []Category {
	return []Category{
		// Expense
		{ID: "c1", Name: "Dining", Icon: IconUtensils, Color: "orange", Kind: Expense},
		{ID: "c2", Name: "Transport", Icon: IconBus, Color: "blue", Kind: Expense},
		{ID: "c3", Name: "Shopping", Icon: IconShoppingBag, Color: "pink", Kind: Expense},
		{ID: "c4", Name: "Entertainment", Icon: IconClapperboard, Color: "purple", Kind: Expense},
		{ID: "c5", Name: "Health", Icon: IconStethoscope, Color: "red", Kind: Expense},
		{ID: "c6", Name: "Education", Icon: IconGraduationCap, Color: "indigo", Kind: Expense},
		{ID: "c7", Name: "Housing", Icon: IconHome, Color: "teal", Kind: Expense},
		{ID: "c8", Name: "Bills", Icon: IconZap, Color: "yellow", Kind: Expense},
		// Income
		{ID: "c9", Name: "Salary", Icon: IconBriefcase, Color: "emerald", Kind: Income},
		{ID: "c10", Name: "Investment", Icon: IconDollarSign, Color: "cyan", Kind: Income},
		{ID: "c11", Name: "Gift", Icon: IconGift, Color: "rose", Kind: Income},
	}
}
