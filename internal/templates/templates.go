// Package templates provides starter tables and per-format sample input.
package templates

import (
	"slices"

	"github.com/bjaus/gridconv"
)

// Template is a ready-made table.
type Template struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Popular     bool          `json:"popular"`
	Data        gridconv.Grid `json:"data"`
}

var gallery = []Template{
	{
		ID:          "business",
		Name:        "Business Report",
		Description: "Quarterly business performance data with revenue, expenses, and growth metrics",
		Category:    "Business",
		Popular:     true,
		Data: gridconv.Grid{
			{"Quarter", "Revenue", "Expenses", "Profit", "Growth %"},
			{"Q1 2024", "250000", "180000", "70000", "12.5"},
			{"Q2 2024", "280000", "195000", "85000", "21.4"},
			{"Q3 2024", "320000", "220000", "100000", "17.6"},
			{"Q4 2024", "350000", "240000", "110000", "10.0"},
		},
	},
	{
		ID:          "financial",
		Name:        "Financial Tracker",
		Description: "Personal or business financial tracking with income, expenses, and savings",
		Category:    "Finance",
		Data: gridconv.Grid{
			{"Month", "Income", "Expenses", "Savings", "Category"},
			{"January", "5000", "3200", "1800", "Personal"},
			{"February", "5200", "3100", "2100", "Personal"},
			{"March", "4800", "3400", "1400", "Personal"},
			{"April", "5500", "3300", "2200", "Personal"},
			{"May", "5300", "3500", "1800", "Personal"},
		},
	},
	{
		ID:          "inventory",
		Name:        "Inventory Management",
		Description: "Product inventory with stock levels, pricing, and supplier information",
		Category:    "Operations",
		Popular:     true,
		Data: gridconv.Grid{
			{"Product ID", "Product Name", "Category", "Stock", "Price", "Supplier"},
			{"P001", "Laptop Pro 15", "Electronics", "25", "1299.99", "TechCorp"},
			{"P002", "Wireless Mouse", "Electronics", "150", "29.99", "TechCorp"},
			{"P003", "Office Chair", "Furniture", "45", "199.99", "FurniCo"},
			{"P004", "Desk Lamp", "Furniture", "80", "49.99", "FurniCo"},
			{"P005", "Notebook Set", "Stationery", "200", "12.99", "PaperPlus"},
		},
	},
	{
		ID:          "employees",
		Name:        "Employee Directory",
		Description: "Staff information with contact details and organizational structure",
		Category:    "HR",
		Data: gridconv.Grid{
			{"Employee ID", "Name", "Department", "Position", "Email", "Phone"},
			{"EMP001", "John Smith", "Engineering", "Senior Developer", "john.smith@company.com", "+1-555-0101"},
			{"EMP002", "Sarah Johnson", "Marketing", "Marketing Manager", "sarah.johnson@company.com", "+1-555-0102"},
			{"EMP003", "Mike Davis", "Sales", "Sales Representative", "mike.davis@company.com", "+1-555-0103"},
			{"EMP004", "Emily Brown", "HR", "HR Specialist", "emily.brown@company.com", "+1-555-0104"},
			{"EMP005", "David Wilson", "Finance", "Financial Analyst", "david.wilson@company.com", "+1-555-0105"},
		},
	},
	{
		ID:          "sales",
		Name:        "Sales Performance",
		Description: "Sales data with regional performance and quarterly comparisons",
		Category:    "Sales",
		Popular:     true,
		Data: gridconv.Grid{
			{"Salesperson", "Region", "Q1 Sales", "Q2 Sales", "Q3 Sales", "Total"},
			{"Alice Cooper", "North", "45000", "52000", "48000", "145000"},
			{"Bob Martinez", "South", "38000", "41000", "44000", "123000"},
			{"Carol White", "East", "51000", "49000", "53000", "153000"},
			{"Dan Lee", "West", "42000", "46000", "50000", "138000"},
			{"Eva Garcia", "Central", "39000", "43000", "47000", "129000"},
		},
	},
	{
		ID:          "projects",
		Name:        "Project Timeline",
		Description: "Project management with milestones, deadlines, and team assignments",
		Category:    "Management",
		Data: gridconv.Grid{
			{"Project", "Start Date", "End Date", "Status", "Progress %", "Team Lead"},
			{"Website Redesign", "2024-01-15", "2024-03-30", "In Progress", "75", "Alice Johnson"},
			{"Mobile App", "2024-02-01", "2024-05-15", "Planning", "25", "Bob Smith"},
			{"Database Migration", "2024-01-01", "2024-02-28", "Completed", "100", "Carol Davis"},
			{"API Integration", "2024-03-01", "2024-04-30", "In Progress", "60", "David Wilson"},
			{"Security Audit", "2024-04-01", "2024-06-30", "Not Started", "0", "Eva Martinez"},
		},
	},
}

// All returns every template in gallery order. The grids are copies.
func All() []Template {
	out := make([]Template, len(gallery))
	for i, t := range gallery {
		out[i] = t.clone()
	}
	return out
}

// Get returns the template with the given id.
func Get(id string) (Template, bool) {
	for _, t := range gallery {
		if t.ID == id {
			return t.clone(), true
		}
	}
	return Template{}, false
}

// Popular returns the templates flagged as popular.
func Popular() []Template {
	var out []Template
	for _, t := range gallery {
		if t.Popular {
			out = append(out, t.clone())
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func Categories() []string {
	var out []string
	for _, t := range gallery {
		if !slices.Contains(out, t.Category) {
			out = append(out, t.Category)
		}
	}
	slices.Sort(out)
	return out
}

func (t Template) clone() Template {
	t.Data = t.Data.Clone()
	return t
}
