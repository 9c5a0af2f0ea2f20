package output

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Tax on line 4 uses the Tax Rate Schedules only; qualified dividends and capital gains are not separated",
	"Self-employment tax: 92.35% of net profit, 12.4% Social Security up to the wage base, 2.9% Medicare",
	"Additional Medicare Tax and NIIT are not computed; enter them as other taxes",
	"Required annual payment: smaller of 90% of current-year tax (66 2/3% for farmers and fishers) or 100%/110% of prior-year tax",
	"No estimated payments are required when line 14a is zero or less, or line 14b is under $1,000",
}
