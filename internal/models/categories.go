package models

// FundTypes maps fund-type column codes to display names
var FundTypes = map[string]string{
	"GN": "General Fund",
	"SR": "Special Revenue Fund",
	"CP": "Capital Projects Fund",
	"DS": "Debt Service Fund",
	"EP": "Enterprise/Proprietary Fund",
	"TS": "Trust Fund",
	"FD": "Fiduciary Fund",
	"DP": "Debt Principal Fund",
	"OT": "Other Funds",
}

// RevenueCategories maps comptroller revenue category codes to names
var RevenueCategories = map[string]string{
	"201t": "Property Taxes",
	"202t": "Personal Property Replacement Tax",
	"203t": "Sales Tax",
	"204t": "Other Taxes",
	"205t": "Special Assessments",
	"211t": "Licenses and Permits",
	"212t": "Fines and Forfeitures",
	"213t": "Interest Earnings",
	"214t": "Rental Income",
	"215t": "Intergovernmental Revenue",
	"225t": "Charges for Services",
	"226t": "Contributions and Donations",
	"231t": "Bond/Loan Proceeds",
	"233t": "Interfund Transfers In",
	"234t": "Other Revenue",
	"235t": "User Fees",
	"236t": "Miscellaneous Revenue",
}

// ExpenditureCategories maps comptroller expenditure category codes to names
var ExpenditureCategories = map[string]string{
	"251t": "General Government",
	"252t": "Public Safety",
	"253t": "Highways and Streets",
	"254t": "Sanitation",
	"255t": "Health and Welfare",
	"256t": "Culture and Recreation",
	"257t": "Conservation and Development",
	"258t": "Education",
	"259t": "Other Expenditures",
	"260t": "Capital Outlay",
	"271t": "Debt Service - Principal",
	"272t": "Debt Service - Interest",
	"275t": "Interfund Transfers Out",
	"280t": "Contingency",
}

// FundBalanceCategories maps GASB 54 fund balance classification codes
var FundBalanceCategories = map[string]string{
	"302t": "Nonspendable",
	"303t": "Restricted",
	"304t": "Committed",
	"305t": "Assigned",
	"307t": "Unassigned",
	"308t": "Total Fund Balance",
}

// UnassignedFundBalanceCategory is the GASB 54 classification used as the
// freely spendable reserve in fiscal health scoring
const UnassignedFundBalanceCategory = "307t"

// CategoryName resolves a category code against a code map, falling back to
// the raw code for unknown categories
func CategoryName(names map[string]string, code string) string {
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
