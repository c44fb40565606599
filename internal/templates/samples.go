package templates

import "github.com/bjaus/gridconv"

var samples = map[gridconv.Format]string{
	gridconv.CSV: `Name,Age,City,Salary
John Doe,28,New York,75000
Jane Smith,32,Los Angeles,82000
Mike Johnson,25,Chicago,68000
Sarah Wilson,29,Houston,71000
David Brown,35,Phoenix,79000`,

	gridconv.TSV: "Name\tAge\tCity\tSalary\n" +
		"John Doe\t28\tNew York\t75000\n" +
		"Jane Smith\t32\tLos Angeles\t82000\n" +
		"Mike Johnson\t25\tChicago\t68000\n" +
		"Sarah Wilson\t29\tHouston\t71000\n" +
		"David Brown\t35\tPhoenix\t79000",

	gridconv.JSON: `[
  {"Name": "John Doe", "Age": 28, "City": "New York", "Salary": 75000},
  {"Name": "Jane Smith", "Age": 32, "City": "Los Angeles", "Salary": 82000},
  {"Name": "Mike Johnson", "Age": 25, "City": "Chicago", "Salary": 68000},
  {"Name": "Sarah Wilson", "Age": 29, "City": "Houston", "Salary": 71000},
  {"Name": "David Brown", "Age": 35, "City": "Phoenix", "Salary": 79000}
]`,

	gridconv.HTML: `<table>
  <thead>
    <tr>
      <th>Name</th>
      <th>Age</th>
      <th>City</th>
      <th>Salary</th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <td>John Doe</td>
      <td>28</td>
      <td>New York</td>
      <td>75000</td>
    </tr>
    <tr>
      <td>Jane Smith</td>
      <td>32</td>
      <td>Los Angeles</td>
      <td>82000</td>
    </tr>
    <tr>
      <td>Mike Johnson</td>
      <td>25</td>
      <td>Chicago</td>
      <td>68000</td>
    </tr>
  </tbody>
</table>`,

	gridconv.Markdown: `| Name | Age | City | Salary |
|------|-----|------|--------|
| John Doe | 28 | New York | 75000 |
| Jane Smith | 32 | Los Angeles | 82000 |
| Mike Johnson | 25 | Chicago | 68000 |
| Sarah Wilson | 29 | Houston | 71000 |
| David Brown | 35 | Phoenix | 79000 |`,

	gridconv.XML: `<?xml version="1.0" encoding="UTF-8"?>
<table>
  <row>
    <Name>John Doe</Name>
    <Age>28</Age>
    <City>New York</City>
    <Salary>75000</Salary>
  </row>
  <row>
    <Name>Jane Smith</Name>
    <Age>32</Age>
    <City>Los Angeles</City>
    <Salary>82000</Salary>
  </row>
  <row>
    <Name>Mike Johnson</Name>
    <Age>25</Age>
    <City>Chicago</City>
    <Salary>68000</Salary>
  </row>
</table>`,

	gridconv.YAML: `- Name: John Doe
  Age: 28
  City: New York
  Salary: 75000
- Name: Jane Smith
  Age: 32
  City: Los Angeles
  Salary: 82000
- Name: Mike Johnson
  Age: 25
  City: Chicago
  Salary: 68000`,

	gridconv.SQL: `INSERT INTO employees (Name, Age, City, Salary) VALUES
('John Doe', 28, 'New York', 75000),
('Jane Smith', 32, 'Los Angeles', 82000),
('Mike Johnson', 25, 'Chicago', 68000),
('Sarah Wilson', 29, 'Houston', 71000),
('David Brown', 35, 'Phoenix', 79000);`,

	gridconv.LaTeX: `\begin{tabular}{|l|c|l|r|}
\hline
Name & Age & City & Salary \\
\hline
John Doe & 28 & New York & 75000 \\
Jane Smith & 32 & Los Angeles & 82000 \\
Mike Johnson & 25 & Chicago & 68000 \\
Sarah Wilson & 29 & Houston & 71000 \\
David Brown & 35 & Phoenix & 79000 \\
\hline
\end{tabular}`,

	gridconv.ASCII: `+-------------+-----+-------------+--------+
| Name        | Age | City        | Salary |
+-------------+-----+-------------+--------+
| John Doe    | 28  | New York    | 75000  |
| Jane Smith  | 32  | Los Angeles | 82000  |
| Mike Johnson| 25  | Chicago     | 68000  |
| Sarah Wilson| 29  | Houston     | 71000  |
| David Brown | 35  | Phoenix     | 79000  |
+-------------+-----+-------------+--------+`,

	gridconv.Excel: `=CONCATENATE("Name", CHAR(9), "Age", CHAR(9), "City", CHAR(9), "Salary")
=CONCATENATE("John Doe", CHAR(9), "28", CHAR(9), "New York", CHAR(9), "75000")
=CONCATENATE("Jane Smith", CHAR(9), "32", CHAR(9), "Los Angeles", CHAR(9), "82000")`,
}

// Sample returns example input for format f. Unknown formats get the CSV
// sample.
func Sample(f gridconv.Format) string {
	if s, ok := samples[f]; ok {
		return s
	}
	return samples[gridconv.CSV]
}
