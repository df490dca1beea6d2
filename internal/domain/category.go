package domain

// Category is the label a user assigns to a transaction.
type Category string

const (
	CategorySales     Category = "sales"
	CategorySuppliers Category = "suppliers"
	CategoryFixed     Category = "fixed"
	CategoryVariable  Category = "variable"
	CategoryRevenue   Category = "revenue"
	CategorySalaries  Category = "salaries"
	CategoryRent      Category = "rent"
	CategoryServices  Category = "services"
	CategoryMarketing Category = "marketing"
	CategoryTaxes     Category = "taxes"
	CategoryOther     Category = "other"
)

// Categories lists every accepted label in display order.
var Categories = []Category{
	CategorySales,
	CategorySuppliers,
	CategoryFixed,
	CategoryVariable,
	CategoryRevenue,
	CategorySalaries,
	CategoryRent,
	CategoryServices,
	CategoryMarketing,
	CategoryTaxes,
	CategoryOther,
}

// IsValid reports whether c is part of the closed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Bucket is the income statement line a category rolls up into.
type Bucket string

const (
	BucketDeduction        Bucket = "deduction"
	BucketVariableCost     Bucket = "variable_cost"
	BucketOperatingExpense Bucket = "operating_expense"
	// BucketUnclassified lands in gross revenue for income and in
	// operating expenses for expenses.
	BucketUnclassified Bucket = "unclassified"
)

// categoryBuckets maps categories to DRE buckets. Categories missing from the
// table (sales, revenue, other, unknown labels) are unclassified.
//
// Note: "other" is revenue on the income side and an operating expense on the
// expense side. That dual meaning is a business rule, keep it.
var categoryBuckets = map[Category]Bucket{
	CategoryTaxes:     BucketDeduction,
	CategorySuppliers: BucketVariableCost,
	CategoryVariable:  BucketVariableCost,
	CategoryFixed:     BucketOperatingExpense,
	CategorySalaries:  BucketOperatingExpense,
	CategoryRent:      BucketOperatingExpense,
	CategoryServices:  BucketOperatingExpense,
	CategoryMarketing: BucketOperatingExpense,
}

// Classify returns the DRE bucket for a category. It never fails.
func Classify(c Category) Bucket {
	if b, ok := categoryBuckets[c]; ok {
		return b
	}
	return BucketUnclassified
}
