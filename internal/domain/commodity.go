package domain

// CommodityGroups is the master taxonomy of purchasable goods and
// services. The classifier's class universe is a subset of this list, and
// manual selections on requests are checked against it.
var CommodityGroups = []string{
	"Accommodation Rentals", "Membership Fees", "Workplace Safety", "Consulting",
	"Financial Services", "Fleet Management", "Recruitment Services", "Professional Development",
	"Miscellaneous Services", "Insurance", "Electrical Engineering", "Facility Management Services",
	"Security", "Renovations", "Office Equipment", "Energy Management", "Maintenance",
	"Cafeteria and Kitchenettes", "Cleaning", "Audio and Visual Production", "Books/Videos/CDs",
	"Printing Costs", "Software Development for Publishing", "Material Costs", "Shipping for Production",
	"Digital Product Development", "Pre-production", "Post-production Costs", "Hardware",
	"IT Services", "Software", "Courier, Express, and Postal Services", "Warehousing and Material Handling",
	"Transportation Logistics", "Delivery Services", "Advertising", "Outdoor Advertising",
	"Marketing Agencies", "Direct Mail", "Customer Communication", "Online Marketing",
	"Events", "Promotional Materials", "Warehouse and Operational Equipment", "Production Machinery",
	"Spare Parts", "Internal Transportation", "Production Materials", "Consumables", "Maintenance and Repairs",
}

// IsKnownCommodityGroup reports whether label is part of the taxonomy.
func IsKnownCommodityGroup(label string) bool {
	for _, g := range CommodityGroups {
		if g == label {
			return true
		}
	}
	return false
}
