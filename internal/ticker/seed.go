package ticker

// seedEntries are scanned in this order. Broader fragments ("pepsi")
// come before their longer variants on purpose: first match wins.
var seedEntries = []entry{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"amazon", "AMZN"},
	{"tesla", "TSLA"},
	{"facebook", "META"},
	{"meta", "META"},
	{"netflix", "NFLX"},
	{"nvidia", "NVDA"},
	{"intel", "INTC"},
	{"amd", "AMD"},
	{"ibm", "IBM"},
	{"oracle", "ORCL"},
	{"salesforce", "CRM"},
	{"adobe", "ADBE"},
	{"walmart", "WMT"},
	{"target", "TGT"},
	{"coca cola", "KO"},
	{"pepsi", "PEP"},
	{"pepsico", "PEP"},
	{"mcdonalds", "MCD"},
	{"starbucks", "SBUX"},
	{"nike", "NKE"},
	{"disney", "DIS"},
	{"boeing", "BA"},
	{"ford", "F"},
	{"general motors", "GM"},
	{"exxon", "XOM"},
	{"chevron", "CVX"},
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},
	{"goldman sachs", "GS"},
	{"visa", "V"},
	{"mastercard", "MA"},
	{"paypal", "PYPL"},
	{"johnson & johnson", "JNJ"},
	{"pfizer", "PFE"},
	{"merck", "MRK"},
	{"verizon", "VZ"},
	{"at&t", "T"},
}
