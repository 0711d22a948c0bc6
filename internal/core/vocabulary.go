package core

// Kind separates money going out from money coming in.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Category is an identifier from the fixed per-kind vocabulary.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryHealth    Category = "health"
	CategoryHousing   Category = "housing"
	CategoryLeisure   Category = "leisure"
	CategoryTransport Category = "transport"
	CategoryOther     Category = "other"

	CategorySalary      Category = "salary"
	CategorySales       Category = "sales"
	CategoryOtherIncome Category = "other-income"
)

type categoryInfo struct {
	label string
	kind  Kind
}

// vocabulary is the single source of category identifiers and labels.
var vocabulary = map[Category]categoryInfo{
	CategoryFood:        {"Food", KindExpense},
	CategoryHealth:      {"Health", KindExpense},
	CategoryHousing:     {"Housing", KindExpense},
	CategoryLeisure:     {"Leisure", KindExpense},
	CategoryTransport:   {"Transport", KindExpense},
	CategoryOther:       {"Other", KindExpense},
	CategorySalary:      {"Salary", KindIncome},
	CategorySales:       {"Sales", KindIncome},
	CategoryOtherIncome: {"Other income", KindIncome},
}

var categoryOrder = map[Kind][]Category{
	KindExpense: {CategoryFood, CategoryHealth, CategoryHousing, CategoryLeisure, CategoryTransport, CategoryOther},
	KindIncome:  {CategorySalary, CategorySales, CategoryOtherIncome},
}

// CategoriesFor returns the categories of kind in display order.
func CategoriesFor(k Kind) []Category {
	src := categoryOrder[k]
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// Label returns the display name, or the raw identifier for unknown categories.
func (c Category) Label() string {
	if info, ok := vocabulary[c]; ok {
		return info.label
	}
	return string(c)
}

// Known reports whether c is part of the vocabulary.
func (c Category) Known() bool {
	_, ok := vocabulary[c]
	return ok
}

// ValidFor reports whether c belongs to the vocabulary of k.
func (c Category) ValidFor(k Kind) bool {
	info, ok := vocabulary[c]
	return ok && info.kind == k
}

// PaymentMethod records how an entry was paid.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentDebit         PaymentMethod = "debit"
	PaymentCredit        PaymentMethod = "credit"
	PaymentPix           PaymentMethod = "pix"
	PaymentNotApplicable PaymentMethod = "n/a"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:          "Cash",
	PaymentDebit:         "Debit",
	PaymentCredit:        "Credit",
	PaymentPix:           "Pix",
	PaymentNotApplicable: "N/A",
}

// PaymentMethods lists the methods selectable for expenses.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentDebit, PaymentCredit, PaymentPix}
}

func (p PaymentMethod) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return string(p)
}

// ValidFor reports whether p may be used on an entry of kind k.
// Income always uses n/a and expenses never do.
func (p PaymentMethod) ValidFor(k Kind) bool {
	if _, ok := paymentLabels[p]; !ok {
		return false
	}
	if k == KindIncome {
		return p == PaymentNotApplicable
	}
	return p != PaymentNotApplicable
}
